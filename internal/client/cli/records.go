package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/qrregistry/internal/client/models"
	"github.com/dmitrijs2005/qrregistry/internal/filex"
)

// writeFile is a test seam for saving downloaded QR images.
var writeFile = filex.WriteFileAtomic

var errEmptyField = errors.New("value is required")

func (a *App) promptRequired(prompt string) (string, error) {
	v, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return "", err
	}
	if v == "" {
		return "", fmt.Errorf("%s: %w", strings.ToLower(prompt), errEmptyField)
	}
	return v, nil
}

// Create prompts for the fields of a new record and stores it.
func (a *App) Create(ctx context.Context) error {
	first, err := a.promptRequired("First name")
	if err != nil {
		return a.report(err)
	}
	last, err := a.promptRequired("Last name")
	if err != nil {
		return a.report(err)
	}
	nid, err := a.promptRequired("National ID")
	if err != nil {
		return a.report(err)
	}
	desc, err := getMultiline(a.reader, "Description (optional)", a.out)
	if err != nil {
		return err
	}

	in := models.RecordInput{FirstName: first, LastName: last, NationalID: nid}
	if desc != "" {
		in.Description = &desc
	}

	rec, err := a.api.CreateRecord(ctx, in)
	if err != nil {
		return a.report(err)
	}

	fmt.Fprintf(a.out, "Created record %s\n", rec.ID)
	return nil
}

func (a *App) List(ctx context.Context) error {
	list, err := a.api.ListRecords(ctx)
	if err != nil {
		return a.report(err)
	}
	printRecords(a.out, list, false)
	return nil
}

// ListAll prints every record in the registry; admin only.
func (a *App) ListAll(ctx context.Context) error {
	list, err := a.api.ListAll(ctx)
	if err != nil {
		return a.report(err)
	}
	printRecords(a.out, list, true)
	return nil
}

func (a *App) Show(ctx context.Context, id string) error {
	rec, err := a.api.GetRecord(ctx, id)
	if err != nil {
		return a.report(err)
	}
	printRecord(a.out, rec)
	return nil
}

// Edit walks through the editable fields; an empty answer keeps the current
// value and "-" clears the description.
func (a *App) Edit(ctx context.Context, id string) error {
	rec, err := a.api.GetRecord(ctx, id)
	if err != nil {
		return a.report(err)
	}

	var patch models.RecordPatch
	ask := func(label, current string) (*string, error) {
		v, err := getSimpleText(a.reader, fmt.Sprintf("%s [%s]", label, current), a.out)
		if err != nil || v == "" || v == current {
			return nil, err
		}
		return &v, nil
	}

	if patch.FirstName, err = ask("First name", rec.FirstName); err != nil {
		return err
	}
	if patch.LastName, err = ask("Last name", rec.LastName); err != nil {
		return err
	}
	if patch.NationalID, err = ask("National ID", rec.NationalID); err != nil {
		return err
	}
	current := ""
	if rec.Description != nil {
		current = *rec.Description
	}
	if patch.Description, err = ask("Description (- to clear)", current); err != nil {
		return err
	}
	if patch.Description != nil && *patch.Description == "-" {
		empty := ""
		patch.Description = &empty
	}

	if patch.IsEmpty() {
		fmt.Fprintln(a.out, "Nothing to change")
		return nil
	}

	updated, err := a.api.UpdateRecord(ctx, id, patch)
	if err != nil {
		return a.report(err)
	}
	printRecord(a.out, updated)
	return nil
}

func (a *App) Delete(ctx context.Context, id string) error {
	if err := a.api.DeleteRecord(ctx, id); err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "Deleted record %s\n", id)
	return nil
}

func (a *App) Exists(ctx context.Context, nationalID string) error {
	ok, err := a.api.Exists(ctx, nationalID)
	if err != nil {
		return a.report(err)
	}
	if ok {
		fmt.Fprintf(a.out, "You already have a record with national ID %s\n", nationalID)
	} else {
		fmt.Fprintf(a.out, "No record with national ID %s\n", nationalID)
	}
	return nil
}

// Scan resolves a decoded QR payload (a scan URL or a bare id).
func (a *App) Scan(ctx context.Context, payload string) error {
	rec, err := a.api.Scan(ctx, payload)
	if err != nil {
		return a.report(err)
	}
	printRecord(a.out, rec)
	return nil
}

// SaveQR downloads the record's QR code and writes it to file as PNG.
func (a *App) SaveQR(ctx context.Context, id, file string) error {
	png, err := a.api.QRCode(ctx, id)
	if err != nil {
		return a.report(err)
	}
	if err := writeFile(file, png, 0o644); err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "QR code saved to %s (%d bytes)\n", file, len(png))
	return nil
}

func (a *App) Share(ctx context.Context, id string) error {
	url, err := a.api.Share(ctx, id)
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "Share link (valid for a limited time):\n%s\n", url)
	return nil
}

func printRecord(w io.Writer, r *models.Record) {
	fmt.Fprintf(w, "ID:          %s\n", r.ID)
	fmt.Fprintf(w, "Name:        %s\n", r.FullName())
	fmt.Fprintf(w, "National ID: %s\n", r.NationalID)
	if r.Description != nil && *r.Description != "" {
		fmt.Fprintf(w, "Description: %s\n", *r.Description)
	}
	fmt.Fprintf(w, "Created:     %s\n", r.CreatedAt.Local().Format(time.DateTime))
}

func printRecords(w io.Writer, list []*models.Record, withOwner bool) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No records")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if withOwner {
		fmt.Fprintln(tw, "ID\tNAME\tNATIONAL ID\tOWNER\tCREATED")
	} else {
		fmt.Fprintln(tw, "ID\tNAME\tNATIONAL ID\tCREATED")
	}
	for _, r := range list {
		created := r.CreatedAt.Local().Format(time.DateTime)
		if withOwner {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.FullName(), r.NationalID, r.OwnerID, created)
		} else {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ID, r.FullName(), r.NationalID, created)
		}
	}
	_ = tw.Flush()
}
