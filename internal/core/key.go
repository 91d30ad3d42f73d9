package core

// Key is a semantic key press, abstracted from the physical key that produced it.
// Platforms translate their own key events (terminal keys, browser key names)
// into one of these before handing them to a game.
type Key int

const (
	KeyOther Key = iota // Anything without a game meaning
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyPause
)

// String returns a human-readable name for the key.
func (k Key) String() string {
	switch k {
	case KeyUp:
		return "Up"
	case KeyDown:
		return "Down"
	case KeyLeft:
		return "Left"
	case KeyRight:
		return "Right"
	case KeyPause:
		return "Pause"
	default:
		return "Other"
	}
}

// ParseKeyName maps a browser KeyboardEvent.key value to a Key.
// Unknown names map to KeyOther.
func ParseKeyName(name string) Key {
	switch name {
	case "ArrowUp", "Up":
		return KeyUp
	case "ArrowDown", "Down":
		return KeyDown
	case "ArrowLeft", "Left":
		return KeyLeft
	case "ArrowRight", "Right":
		return KeyRight
	case " ", "Spacebar":
		return KeyPause
	default:
		return KeyOther
	}
}
