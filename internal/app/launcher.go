package app

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/ajanata/pixeldeck/internal/input"
)

var ErrNoApps = errors.New("launcher needs at least one app")

// Launcher owns a fixed rotation of apps. The head of the rotation is the active app: it is the only one
// drawn and the only one that sees input. Held rotates; nothing else changes which app is active.
type Launcher struct {
	apps []App
	head int
	log  logrus.FieldLogger
}

// NewLauncher registers apps in rotation order and enables the first one.
func NewLauncher(log logrus.FieldLogger, apps ...App) (*Launcher, error) {
	if len(apps) == 0 {
		return nil, ErrNoApps
	}
	l := &Launcher{
		apps: append([]App(nil), apps...),
		log:  log,
	}
	l.Active().Enable()
	log.WithField("app", l.Active().Name()).Info("app active")
	return l, nil
}

// Active returns the app at the head of the rotation.
func (l *Launcher) Active() App {
	return l.apps[l.head]
}

// Apps returns the rotation starting at the active app.
func (l *Launcher) Apps() []App {
	out := make([]App, 0, len(l.apps))
	out = append(out, l.apps[l.head:]...)
	return append(out, l.apps[:l.head]...)
}

func (l *Launcher) Draw(d Display) {
	l.Active().Draw(d)
}

func (l *Launcher) HandleInput(ev input.Event) {
	if ev == input.Held {
		l.rotate()
		return
	}
	l.Active().Input(ev)
}

// rotate moves the active app to the back of the rotation.
func (l *Launcher) rotate() {
	old := l.Active()
	old.Disable()
	l.head = (l.head + 1) % len(l.apps)
	next := l.Active()
	next.Enable()
	l.log.WithFields(logrus.Fields{"from": old.Name(), "to": next.Name()}).Info("app switched")
}
