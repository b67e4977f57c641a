package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/pageprops/internal/client/client"
	"github.com/dmitrijs2005/pageprops/internal/client/models"
	"github.com/dmitrijs2005/pageprops/internal/client/services"
	"github.com/dmitrijs2005/pageprops/internal/codec"
	"github.com/dmitrijs2005/pageprops/internal/common"
)

var (
	errNoSession = errors.New("no page loaded, use 'reload'")
	errUsage     = errors.New("usage")
)

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func fprintf(w io.Writer, format string, a ...any) {
	_, _ = fmt.Fprintf(w, format, a...)
}

func usage(text string) error {
	return fmt.Errorf("%w: %s", errUsage, text)
}

func (a *App) prompt() string {
	if !a.interactive {
		return ""
	}
	var parts []string
	if a.session != nil {
		parts = append(parts, fmt.Sprintf("item %d", a.session.ItemID()), string(a.session.State()))
	}
	if s := a.getStatus(); s != StatusUnknown {
		parts = append(parts, string(s))
	}
	return fmt.Sprintf("pp (%s)> ", strings.Join(parts, " "))
}

func (a *App) load(ctx context.Context) error {
	s, err := a.svc.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading page: %w", err)
	}
	a.session = s
	fprintf(a.out, "Loaded %d editable fields of item %d\n", len(s.Items()), s.ItemID())
	return nil
}

// field resolves a field by internal name, then case-insensitively by
// internal name or title.
func (a *App) field(name string) (*models.PropertyItem, error) {
	if a.session == nil {
		return nil, errNoSession
	}
	if name == "" {
		return nil, usage("a field name is required")
	}
	if it, err := a.session.Item(name); err == nil {
		return it, nil
	}
	for _, it := range a.session.Items() {
		if strings.EqualFold(it.Name(), name) || strings.EqualFold(it.Field.Title, name) {
			return it, nil
		}
	}
	return nil, fmt.Errorf("field %q: %w", name, common.ErrorNotFound)
}

// display renders the stored value of an item for the terminal.
func display(it *models.PropertyItem) string {
	v, err := codec.Decode(it.Field, it.Value)
	if err != nil {
		return "(malformed) " + it.Value
	}
	if v.IsEmpty() {
		return "-"
	}
	s := v.String()
	if it.Field.Type == models.FieldTypeMultiLineText {
		if i := strings.IndexByte(s, '\n'); i >= 0 {
			s = s[:i] + " ..."
		}
	}
	return s
}

func (a *App) List(ctx context.Context, _ string) error {
	if a.session == nil {
		return errNoSession
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fprintln(tw, "FIELD\tTITLE\tTYPE\tVALUE")
	for _, it := range a.session.Items() {
		typ := it.Field.Type.String()
		if it.Field.Type == models.FieldTypeMultiLineText {
			typ += " (not submitted)"
		}
		fprintf(tw, "%s\t%s\t%s\t%s\n", it.Name(), it.Field.Title, typ, display(it))
	}
	return tw.Flush()
}

func (a *App) Show(ctx context.Context, args string) error {
	it, err := a.field(args)
	if err != nil {
		return err
	}
	f := it.Field

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fprintf(tw, "Field:\t%s\n", f.InternalName)
	fprintf(tw, "Title:\t%s\n", f.Title)
	fprintf(tw, "Type:\t%s (%s)\n", f.Type, f.TypeName)
	if len(f.Choices) > 0 {
		fprintf(tw, "Options:\t%s\n", strings.Join(f.Choices, ", "))
	}
	if f.Type == models.FieldTypeManagedMetadata {
		fprintf(tw, "Term set:\t%s\n", f.TermSetID)
		fprintf(tw, "Multi-value:\t%t\n", f.MultiValue)
	}
	if it.SubmitName != f.InternalName {
		fprintf(tw, "Submitted as:\t%s\n", it.SubmitName)
	}
	fprintf(tw, "Value:\t%s\n", display(it))
	fprintf(tw, "Stored:\t%s\n", it.Value)
	return tw.Flush()
}

func (a *App) Set(ctx context.Context, args string) error {
	name, value := splitField(args)
	it, err := a.field(name)
	if err != nil {
		return err
	}

	if value == "" {
		prompt := fmt.Sprintf("New value for %s (%s)", it.Field.Title, hint(it.Field))
		if it.Field.Type == models.FieldTypeMultiLineText {
			value, err = GetMultiline(a.reader, prompt, a.out)
		} else {
			value, err = GetSimpleText(a.reader, prompt, a.out)
		}
		if err != nil {
			return err
		}
	}
	if err := a.session.Set(it.Name(), value); err != nil {
		return err
	}
	fprintf(a.out, "%s = %s\n", it.Name(), display(it))
	return nil
}

// hint describes the accepted input of a field type.
func hint(f models.FieldDescriptor) string {
	switch f.Type {
	case models.FieldTypeYesNo:
		return "yes/no"
	case models.FieldTypeChoice:
		return "one of: " + strings.Join(f.Choices, ", ")
	case models.FieldTypeMultiChoice:
		return "';'-separated, from: " + strings.Join(f.Choices, ", ")
	case models.FieldTypeNumber:
		return "number"
	case models.FieldTypeDateTime:
		return "date, e.g. 2024-05-01 or 2024-05-01T09:30:00Z"
	case models.FieldTypeManagedMetadata:
		if f.MultiValue {
			return "Label|ID pairs separated by ';'"
		}
		return "Label|ID"
	default:
		return "text"
	}
}

func (a *App) Clear(ctx context.Context, args string) error {
	it, err := a.field(args)
	if err != nil {
		return err
	}
	if err := a.session.Set(it.Name(), ""); err != nil {
		return err
	}
	if it.Field.Type == models.FieldTypeYesNo {
		fprintf(a.out, "%s cannot be empty; reset to No.\n", it.Name())
	}
	return nil
}

func (a *App) toggle(args string, add bool) error {
	name, label := splitField(args)
	if label == "" {
		return usage("add|remove <field> <option>")
	}
	it, err := a.field(name)
	if err != nil {
		return err
	}
	if err := a.session.ToggleChoice(it.Name(), label, add); err != nil {
		return err
	}
	fprintf(a.out, "%s = %s\n", it.Name(), display(it))
	return nil
}

func (a *App) AddChoice(ctx context.Context, args string) error {
	return a.toggle(args, true)
}

func (a *App) RemoveChoice(ctx context.Context, args string) error {
	return a.toggle(args, false)
}

func (a *App) yesNo(args string, v bool) error {
	it, err := a.field(args)
	if err != nil {
		return err
	}
	if err := a.session.SetYesNo(it.Name(), v); err != nil {
		return err
	}
	fprintf(a.out, "%s = %s\n", it.Name(), display(it))
	return nil
}

func (a *App) SetYes(ctx context.Context, args string) error { return a.yesNo(args, true) }

func (a *App) SetNo(ctx context.Context, args string) error { return a.yesNo(args, false) }

func (a *App) Date(ctx context.Context, args string) error {
	name, value := splitField(args)
	it, err := a.field(name)
	if err != nil {
		return err
	}
	var t time.Time
	if value != "" {
		if t, err = codec.ParseDate(value); err != nil {
			return err
		}
	}
	if err := a.session.SetDate(it.Name(), t); err != nil {
		return err
	}
	fprintf(a.out, "%s = %s\n", it.Name(), display(it))
	return nil
}

func (a *App) Terms(ctx context.Context, args string) error {
	name, value := splitField(args)
	it, err := a.field(name)
	if err != nil {
		return err
	}
	terms, err := codec.ParseTerms(value)
	if err != nil {
		return err
	}
	if err := a.session.SetTerms(it.Name(), terms); err != nil {
		return err
	}
	fprintf(a.out, "%s = %s\n", it.Name(), display(it))
	return nil
}

func (a *App) Preview(ctx context.Context, _ string) error {
	if a.session == nil {
		return errNoSession
	}
	body, err := a.svc.Preview(ctx, a.session, a.mode)
	if err != nil {
		if errors.Is(err, services.ErrNothingToSubmit) {
			fprintln(a.out, "Nothing to submit.")
			return nil
		}
		return err
	}
	fprintf(a.out, "%s request body:\n%s\n", a.mode, body)
	return nil
}

func (a *App) Mode(ctx context.Context, args string) error {
	if args == "" {
		fprintf(a.out, "Transport mode: %s\n", a.mode)
		return nil
	}
	m, err := codec.ParseTransportMode(args)
	if err != nil {
		return err
	}
	a.mode = m
	fprintf(a.out, "Transport mode: %s\n", a.mode)
	return nil
}

func (a *App) Submit(ctx context.Context, _ string) error {
	if a.session == nil {
		return errNoSession
	}
	if a.getStatus() == StatusOffline {
		fprintln(a.out, "Warning: the site did not answer the last check.")
	}

	res, err := a.svc.Submit(ctx, a.session, a.mode)
	switch {
	case err == nil:
		fprintf(a.out, "Submitted %d fields (%s): %s\n", len(res.Fields), res.Mode, strings.Join(res.Fields, ", "))
		return nil
	case errors.Is(err, services.ErrNothingToSubmit):
		fprintln(a.out, "Nothing to submit.")
		return nil
	case errors.Is(err, services.ErrAlreadySubmitted):
		return fmt.Errorf("%w; edit a field to submit again", err)
	}

	var ve *client.ValidationError
	if errors.As(err, &ve) {
		fprintln(a.out, "The site rejected some values:")
		for _, r := range ve.Results {
			if r.HasException {
				fprintf(a.out, "  %s: %s\n", r.FieldName, r.ErrorMessage)
			}
		}
	}
	if a.session.State() == models.BatchFailed {
		fprintln(a.out, "Your changes are kept; fix them and submit again, or 'save' a draft.")
	}
	return err
}

func (a *App) Drafts(ctx context.Context, _ string) error {
	list, err := a.svc.ListDrafts(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fprintln(a.out, "No drafts.")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fprintln(tw, "ID\tITEM\tSTATE\tFIELDS\tUPDATED")
	for _, b := range list {
		fprintf(tw, "%s\t%d\t%s\t%d\t%s\n", b.ID, b.ItemID, b.State, len(b.Items), b.UpdatedAt.Local().Format(time.DateTime))
	}
	return tw.Flush()
}

func (a *App) Save(ctx context.Context, _ string) error {
	if a.session == nil {
		return errNoSession
	}
	if err := a.svc.SaveDraft(ctx, a.session); err != nil {
		return err
	}
	fprintf(a.out, "Draft %s saved.\n", a.session.ID())
	return nil
}

// draftID expands a unique prefix into a full draft id.
func (a *App) draftID(ctx context.Context, prefix string) (string, error) {
	if prefix == "" {
		return "", usage("a draft id is required")
	}
	list, err := a.svc.ListDrafts(ctx)
	if err != nil {
		return "", err
	}
	var matches []string
	for _, b := range list {
		if b.ID == prefix {
			return b.ID, nil
		}
		if strings.HasPrefix(b.ID, prefix) {
			matches = append(matches, b.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("draft %q: %w", prefix, common.ErrorNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("draft prefix %q is ambiguous (%d matches)", prefix, len(matches))
	}
}

// discardChanges asks before dropping an edited session.
func (a *App) discardChanges(force bool) (bool, error) {
	if force || a.session == nil {
		return true, nil
	}
	switch a.session.State() {
	case models.BatchEdited:
		return Confirm(a.reader, "Unsaved changes will be lost. Continue?", a.out)
	case models.BatchFailed:
		return Confirm(a.reader, "Changes kept from the failed submit will be lost. Continue?", a.out)
	}
	return true, nil
}

func (a *App) Resume(ctx context.Context, args string) error {
	id, err := a.draftID(ctx, args)
	if err != nil {
		return err
	}
	if ok, err := a.discardChanges(false); err != nil || !ok {
		return err
	}
	s, err := a.svc.LoadDraft(ctx, id)
	if err != nil {
		return err
	}
	a.session = s
	fprintf(a.out, "Resumed draft %s (%s).\n", s.ID(), s.State())
	return nil
}

func (a *App) Discard(ctx context.Context, args string) error {
	id, err := a.draftID(ctx, args)
	if err != nil {
		return err
	}
	if err := a.svc.DeleteDraft(ctx, id); err != nil {
		return err
	}
	fprintf(a.out, "Draft %s deleted.\n", id)
	return nil
}

func (a *App) Reload(ctx context.Context, args string) error {
	ok, err := a.discardChanges(args == "-f")
	if err != nil || !ok {
		return err
	}
	return a.load(ctx)
}

func (a *App) Status(ctx context.Context, _ string) error {
	status := a.getStatus()
	if status == StatusUnknown {
		status = "unknown"
	}
	fprintf(a.out, "Site: %s\n", status)
	fprintf(a.out, "Mode: %s\n", a.mode)
	if a.session != nil {
		fprintf(a.out, "Batch: %s (%s), item %d\n", a.session.ID(), a.session.State(), a.session.ItemID())
	}
	return nil
}

// Cache lists the locally stored settings, or with "clear" forgets the
// cached list ids.
func (a *App) Cache(ctx context.Context, args string) error {
	switch args {
	case "":
	case "clear":
		n, err := a.svc.ClearListCache(ctx)
		if err != nil {
			return err
		}
		fprintf(a.out, "Forgot %d cached list ids.\n", n)
		return nil
	default:
		return usage("cache [clear]")
	}

	entries, err := a.svc.Settings(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fprintln(a.out, "Nothing cached.")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fprintln(tw, "KEY\tVALUE\tUPDATED")
	for _, e := range entries {
		fprintf(tw, "%s\t%s\t%s\n", e.Key, e.String(), e.UpdatedAt.Local().Format(time.DateTime))
	}
	return tw.Flush()
}
