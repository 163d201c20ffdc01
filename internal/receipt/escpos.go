package receipt

// ESC/POS control sequences understood by consumer thermal printers. Only
// the subset the receipt layout needs: init, alignment, bold, double size,
// and paper cut.
var (
	escInit     = []byte{0x1B, 0x40}       // ESC @: reset to power-on state
	alignLeft   = []byte{0x1B, 0x61, 0x00} // ESC a 0
	alignCenter = []byte{0x1B, 0x61, 0x01} // ESC a 1
	boldOn      = []byte{0x1B, 0x45, 0x01} // ESC E 1
	boldOff     = []byte{0x1B, 0x45, 0x00} // ESC E 0
	sizeDouble  = []byte{0x1D, 0x21, 0x11} // GS !: double width and height
	sizeNormal  = []byte{0x1D, 0x21, 0x00}
	paperCut    = []byte{0x1D, 0x56, 0x42, 0x00} // GS V 66: partial cut with feed
)
