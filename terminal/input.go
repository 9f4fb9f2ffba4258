package terminal

import "github.com/gdamore/tcell/v2"

// ActionKind is what an input event asks the page to do.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionScroll
	ActionResize
	ActionRepaint
	ActionQuit
)

// Action is a translated input event.
type Action struct {
	Kind ActionKind
	// Delta is the scroll distance in pixels for ActionScroll.
	Delta float64
	// Level is the size level for ActionResize.
	Level int
}

// TranslateEvent maps a terminal event to a page action. Wheel and arrow
// keys scroll by step pixels, page keys by a viewport. Digits 1-3 pick a
// size level; q, Esc and Ctrl-C quit.
func TranslateEvent(ev tcell.Event, step, page float64) Action {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return Action{Kind: ActionQuit}
		case tcell.KeyUp:
			return Action{Kind: ActionScroll, Delta: -step}
		case tcell.KeyDown:
			return Action{Kind: ActionScroll, Delta: step}
		case tcell.KeyPgUp:
			return Action{Kind: ActionScroll, Delta: -page}
		case tcell.KeyPgDn:
			return Action{Kind: ActionScroll, Delta: page}
		case tcell.KeyRune:
			switch r := ev.Rune(); r {
			case 'q':
				return Action{Kind: ActionQuit}
			case 'j':
				return Action{Kind: ActionScroll, Delta: step}
			case 'k':
				return Action{Kind: ActionScroll, Delta: -step}
			case '1', '2', '3':
				return Action{Kind: ActionResize, Level: int(r - '0')}
			}
		}

	case *tcell.EventMouse:
		buttons := ev.Buttons()
		if buttons&tcell.WheelUp != 0 {
			return Action{Kind: ActionScroll, Delta: -step}
		}
		if buttons&tcell.WheelDown != 0 {
			return Action{Kind: ActionScroll, Delta: step}
		}

	case *tcell.EventResize:
		return Action{Kind: ActionRepaint}
	}
	return Action{Kind: ActionNone}
}
