package hd44780

// Instruction set of the controller. Each constructor returns the encoded
// command byte; the bit layout follows the HD44780 datasheet.
const (
	cmdClear byte = 0x01
	cmdHome  byte = 0x02

	busyFlag byte = 0x80
)

// entryMode encodes the entry mode set instruction. forward moves the
// address counter up after each access, shift scrolls the display instead of
// the cursor.
func entryMode(forward, shift bool) byte {
	cmd := byte(0x04)
	if forward {
		cmd |= 0x02
	}
	if shift {
		cmd |= 0x01
	}
	return cmd
}

// displayMode encodes the display on/off control instruction.
func displayMode(on, cursor, blink bool) byte {
	cmd := byte(0x08)
	if on {
		cmd |= 0x04
	}
	if cursor {
		cmd |= 0x02
	}
	if blink {
		cmd |= 0x01
	}
	return cmd
}

// shiftMode encodes the cursor/display shift instruction. display shifts the
// whole display, otherwise only the cursor moves.
func shiftMode(display, right bool) byte {
	cmd := byte(0x10)
	if display {
		cmd |= 0x08
	}
	if right {
		cmd |= 0x04
	}
	return cmd
}

// funcSet encodes the function set instruction: bus width, line count and
// font height.
func funcSet(eightBit, twoLine, largeFont bool) byte {
	cmd := byte(0x20)
	if eightBit {
		cmd |= 0x10
	}
	if twoLine {
		cmd |= 0x08
	}
	if largeFont {
		cmd |= 0x04
	}
	return cmd
}

// glyphAddr encodes a set-CGRAM-address instruction.
func glyphAddr(addr byte) byte {
	return 0x40 | addr&0x3F
}

// dataAddr encodes a set-DDRAM-address instruction.
func dataAddr(addr byte) byte {
	return 0x80 | addr&0x7F
}
