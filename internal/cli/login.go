package cli

import (
	"context"
	"fmt"

	"github.com/dmaksimov/facenote/internal/common"
)

func (a *App) Login(ctx context.Context) error {
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

	if err := a.store.Login(ctx, username, password); err != nil {
		fmt.Fprintf(a.out, "Login unsuccessful: %v\n", err)
		return err
	}

	fmt.Fprintf(a.out, "Welcome back, %s!\n", username)
	return nil
}

// VerifyFace runs the biometric check for an account that enrolled a face
// descriptor at registration. The descriptor is supplied the same way the
// capture model would hand it over: as a precomputed numeric vector.
func (a *App) VerifyFace(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}

	descText, err := GetSimpleText(a.reader, "Enter face descriptor (comma-separated numbers)", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}

	descriptor, err := ParseDescriptor(descText)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}

	match, err := a.store.VerifyFace(ctx, username, descriptor)
	if err != nil {
		fmt.Fprintf(a.out, "Face verification failed: %v\n", err)
		return err
	}

	if match {
		fmt.Fprintln(a.out, "Face verified.")
	} else {
		fmt.Fprintln(a.out, "Face not recognized.")
	}
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.store.Logout(ctx); err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *App) DeleteAccount(ctx context.Context) error {
	confirm, err := GetSimpleText(a.reader, "Delete this account and all its notes? Type 'yes' to confirm", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}
	if confirm != "yes" {
		fmt.Fprintln(a.out, "Aborted.")
		return nil
	}

	if err := a.store.DeleteAccount(ctx); err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}

	fmt.Fprintln(a.out, "Account deleted.")
	return nil
}
