package viewer

import (
	"errors"
	"flag"
)

// registerCommands binds the developer console to the same actions the widgets run.
func (a *App) registerCommands() {
	press := flag.NewFlagSet("press", flag.ContinueOnError)
	id := press.String("id", "", "widget id")
	a.commands.Register("press", "-id <widget>  run a widget's action", press, func() error {
		target := *id
		*id = ""
		if target == "" {
			return errors.New("press: -id is required")
		}
		return a.input.Press(target)
	})

	load := flag.NewFlagSet("load", flag.ContinueOnError)
	path := load.String("path", "", "mesh file")
	a.commands.Register("load", "-path <file>  load a mesh without the picker", load, func() error {
		file := *path
		*path = ""
		if file == "" {
			return errors.New("load: -path is required")
		}
		a.input.LoadPath(file)
		return nil
	})

	a.commands.Register("env", "next environment", nil, func() error {
		a.loader.NextEnvironment()
		return nil
	})
	a.commands.Register("reset", "back to the dome", nil, func() error {
		a.input.Reset()
		return nil
	})
	a.commands.Register("present", "toggle the immersive session", nil, func() error {
		a.TogglePresentation()
		return nil
	})
	a.commands.Register("help", "list commands", nil, func() error {
		for _, line := range a.commands.Help() {
			a.log.Log(line)
		}
		return nil
	})
}

// Submit runs one console line. Lines that are not commands are only logged.
func (a *App) Submit(line string) {
	a.log.Log(line)
	handled, err := a.commands.Submit(line)
	if err != nil {
		a.log.Errorf("%v", err)
		return
	}
	if !handled {
		a.log.Debugf("not a command: %q", line)
	}
}
