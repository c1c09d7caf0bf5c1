package cli

import (
	"context"
	"fmt"

	"github.com/dmaksimov/facenote/internal/common"
)

func (a *App) Register(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}

	password, err := GetPassword(a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}
	defer common.WipeByteArray(password)

	descText, err := GetSimpleText(a.reader, "Enter face descriptor (comma-separated numbers, empty to skip)", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}

	var descriptor []float64
	if descText != "" {
		descriptor, err = ParseDescriptor(descText)
		if err != nil {
			fmt.Fprintf(a.out, "error: %v\n", err)
			return err
		}
	}

	if _, err := a.store.Register(ctx, username, password, descriptor); err != nil {
		fmt.Fprintf(a.out, "Registration failed: %v\n", err)
		return err
	}

	fmt.Fprintln(a.out, "Account created. Use 'login' to sign in.")
	return nil
}
