package cli

import (
	"context"
	"fmt"

	"github.com/dmaksimov/facenote/internal/notes"
)

func (a *App) AddNote(ctx context.Context) error {
	title, err := GetSimpleText(a.reader, "Enter title", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}

	content, err := GetMultiline(a.reader, "Enter content", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}

	note, err := a.notes.Add(ctx, title, content)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}

	fmt.Fprintf(a.out, "Note added (id %s).\n", note.ID)
	return nil
}

func (a *App) DeleteNote(ctx context.Context, id string) error {
	if err := a.notes.Delete(ctx, id); err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}
	fmt.Fprintln(a.out, "Note deleted.")
	return nil
}

func (a *App) PinNote(ctx context.Context, id string) error {
	if err := a.notes.TogglePin(ctx, id); err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}
	return a.ListNotes(ctx, "")
}

func (a *App) ArchiveNote(ctx context.Context, id string) error {
	if err := a.notes.ToggleArchive(ctx, id); err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}
	return a.ListNotes(ctx, "")
}

func (a *App) ListNotes(ctx context.Context, filter string) error {
	var f notes.Filter
	switch filter {
	case "", "all":
		f = notes.FilterAll
	case "pinned":
		f = notes.FilterPinned
	case "archived":
		f = notes.FilterArchived
	default:
		fmt.Fprintln(a.out, "Usage: list [all|pinned|archived]")
		return nil
	}

	count := 0
	for n := range a.notes.List(f) {
		marker := " "
		switch {
		case n.IsPinned:
			marker = "*"
		case n.IsArchived:
			marker = "a"
		}
		fmt.Fprintf(a.out, "%s %s  %s  (%s)\n", marker, n.ID, n.Title, n.Timestamp.Local().Format("2006-01-02 15:04"))
		if n.Content != "" {
			fmt.Fprintf(a.out, "    %s\n", n.Content)
		}
		count++
	}

	if count == 0 {
		fmt.Fprintln(a.out, "No notes.")
	}
	return nil
}
