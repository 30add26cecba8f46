package system

// The *WithLog helpers report the outcome through l, which may be nil.

func SetGraphicsModeWithLog(l logger) error {
	return logged(l, SetGraphicsMode(), "KD_GRAPHICS set", "KD_GRAPHICS failed")
}

func RestoreTextModeWithLog(l logger) error {
	return logged(l, RestoreTextMode(), "KD_TEXT set", "KD_TEXT failed")
}

func HideCursorWithLog(l logger) error {
	return logged(l, HideCursor(), "cursor hidden", "hide cursor failed")
}

func ShowCursorWithLog(l logger) error {
	return logged(l, ShowCursor(), "cursor shown", "show cursor failed")
}

func logged(l logger, err error, ok, failed string) error {
	if l == nil {
		return err
	}
	if err != nil {
		l.Errorf("tty", "%s: %v", failed, err)
	} else {
		l.Infof("tty", "%s", ok)
	}
	return err
}
