package hd44780

// address maps the logical cursor position to the controller's display-RAM
// address. Rows 0 and 2 share the first 64-cell line pair and rows 1 and 3
// the second, with the lower two rows offset by the display width. The
// layout is fixed by the controller family; 20x4 modules genuinely address
// row 2 at 0x14.
func (d *Driver) address() byte {
	addr := d.x + 64*(d.y%2)
	if d.y >= 2 {
		addr += d.cols
	}
	return byte(addr)
}

// advance moves the cursor one cell in the active direction, wrapping
// column into row and row around the display. Reverse is the exact mirror
// of forward.
func (d *Driver) advance() {
	if d.forward {
		d.x++
		if d.x >= d.cols {
			d.x = 0
			d.y++
			if d.y >= d.rows {
				d.y = 0
			}
		}
	} else {
		d.x--
		if d.x < 0 {
			d.x = d.cols - 1
			d.y--
			if d.y < 0 {
				d.y = d.rows - 1
			}
		}
	}
}
