package system

// Linux input-event-codes.h
const (
	KeyF4 uint16 = 62
	KeyF5 uint16 = 63
)

const (
	evKey    = 0x01
	keyPress = 1
)

// KeyBindings maps a key code to the action run when it is pressed.
type KeyBindings map[uint16]func()
