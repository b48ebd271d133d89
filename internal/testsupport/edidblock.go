package testsupport

// EDIDBlock builds a minimal, checksummed 128-byte EDID base block whose
// monitor-name and serial descriptors carry the given strings. Strings
// longer than 13 bytes are truncated, matching the descriptor field width.
func EDIDBlock(product, serial string) []byte {
	block := make([]byte, 128)

	// Fixed header.
	copy(block, []byte{0x00, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x00})

	// Manufacturer "TST", arbitrary product/serial numbers, EDID 1.3.
	block[8], block[9] = 0x52, 0x74
	block[10], block[11] = 0x01, 0x00
	block[16] = 1  // week
	block[17] = 30 // year (1990 + 30)
	block[18], block[19] = 1, 3

	// Standard timing fields: 0x0101 marks an unused slot.
	for i := 38; i < 54; i++ {
		block[i] = 0x01
	}

	writeDescriptor(block[54:72], 0xFC, product)
	writeDescriptor(block[72:90], 0xFF, serial)
	// Remaining descriptor slots stay dummies (tag 0x10).
	block[90+3] = 0x10
	block[108+3] = 0x10

	var sum byte
	for _, b := range block[:127] {
		sum += b
	}
	block[127] = -sum

	return block
}

func writeDescriptor(dst []byte, tag byte, text string) {
	dst[3] = tag
	if len(text) > 13 {
		text = text[:13]
	}
	n := copy(dst[5:18], text)
	for i := 5 + n; i < 18; i++ {
		if i == 5+n {
			dst[i] = 0x0A
			continue
		}
		dst[i] = 0x20
	}
}
