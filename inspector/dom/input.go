package dom

// Input is one host input event. The concrete types are PointerMove, Click,
// DoubleClick and KeyDown.
type Input interface {
	isInput()
}

// PointerMove is a mousemove at viewport coordinates.
type PointerMove struct {
	X, Y float64
}

// Click is a click with the given button (0 = primary).
type Click struct {
	Button int
}

// DoubleClick is a dblclick with the given button (0 = primary).
type DoubleClick struct {
	Button int
}

// KeyDown is a keydown carrying the KeyboardEvent.key value.
type KeyDown struct {
	Key string
}

func (PointerMove) isInput() {}
func (Click) isInput()       {}
func (DoubleClick) isInput() {}
func (KeyDown) isInput()     {}

// PrimaryButton is the main mouse button.
const PrimaryButton = 0
