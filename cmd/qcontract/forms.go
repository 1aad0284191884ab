package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mbolis/quick-contract/canvas"
	"github.com/mbolis/quick-contract/model"
)

func loginForm(username, password *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("User").
				Value(username),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(password),
		),
	)
}

func required(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", what)
		}
		return nil
	}
}

func confirm(title string) (bool, error) {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Value(&ok),
		),
	).Run()
	return ok, err
}

func fieldTypeOptions() []huh.Option[model.FieldType] {
	labels := map[model.FieldType]string{
		model.TypeText:      "Text",
		model.TypeDate:      "Date",
		model.TypeCheckbox:  "Checkbox",
		model.TypeSignature: "Signature",
		model.TypeFixed:     "Fixed text",
	}
	opts := make([]huh.Option[model.FieldType], len(model.FieldTypes))
	for i, t := range model.FieldTypes {
		opts[i] = huh.NewOption(labels[t], t)
	}
	return opts
}

// fieldForm asks the type and the label (or caption, for fixed text) of a
// new blueprint field.
func fieldForm(t *model.FieldType, text *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[model.FieldType]().
				Title("Field type").
				Options(fieldTypeOptions()...).
				Value(t),
			huh.NewInput().
				TitleFunc(func() string {
					if *t == model.TypeFixed {
						return "Text to display"
					}
					return "Label"
				}, t).
				Value(text).
				Validate(required("text")),
		),
	)
}

// parsePoint reads "x,y" canvas coordinates.
func parsePoint(s string) (canvas.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return canvas.Point{}, errors.New("expected x,y")
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return canvas.Point{}, fmt.Errorf("x: %w", err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return canvas.Point{}, fmt.Errorf("y: %w", err)
	}
	return canvas.Point{X: x, Y: y}, nil
}

func validPoint(s string) error {
	_, err := parsePoint(s)
	return err
}

func validDate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := model.DateValue(s).Time(); err != nil {
		return fmt.Errorf("use %s", model.DateLayout)
	}
	return nil
}
