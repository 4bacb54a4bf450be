package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"job-tracker-backend/internal/domain"
)

func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.reader, a.out, a.ttyInput)
	if err != nil {
		return err
	}
	defer wipe(password)

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	auth, err := a.api.Login(ctx, email, string(password))
	if err != nil {
		return err
	}

	s := auth.Session()
	if err := a.sessions.Save(s); err != nil {
		fmt.Fprintln(a.out, "Could not store session:", err)
	}
	a.setSession(s)
	fmt.Fprintf(a.out, "Signed in as %s\n", s.Email)

	return a.List(ctx)
}

func (a *App) Logout(ctx context.Context) error {
	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	if err := a.api.SignOut(ctx, a.session); err != nil {
		fmt.Fprintln(a.out, "Server sign-out failed:", err)
	}
	a.clearSession()
	fmt.Fprintln(a.out, "Signed out")
	return nil
}

func (a *App) Whoami(ctx context.Context) error {
	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	user, err := a.api.Me(ctx, a.session)
	if err != nil {
		return a.checkAuth(err)
	}
	fmt.Fprintf(a.out, "%s (%s)\n", user.Email, user.ID)
	return nil
}

// List re-fetches and renders the derived view. When the fetch fails the
// previously fetched records are still shown.
func (a *App) List(ctx context.Context) error {
	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	err := a.dash.Refresh(ctx)
	if err != nil {
		err = a.checkAuth(err)
		if a.dash == nil {
			return err
		}
	}
	a.renderView()
	renderStats(a.out, a.dash.Stats())
	return err
}

func (a *App) Filter(_ context.Context, value string) error {
	filter, err := domain.ParseFilter(value)
	if err != nil {
		return err
	}
	a.dash.SetFilter(filter)
	a.renderView()
	renderStats(a.out, a.dash.Stats())
	return nil
}

func (a *App) Stats(_ context.Context) error {
	renderStats(a.out, a.dash.Stats())
	return nil
}

// New discards any draft and starts a fresh one in Create mode.
func (a *App) New(_ context.Context) error {
	if err := a.dash.Form().Cancel(); err != nil {
		return err
	}
	renderDraft(a.out, a.dash.Form())
	return nil
}

func (a *App) Edit(_ context.Context, ref string) error {
	if _, err := a.dash.EditRecord(ref); err != nil {
		return lookupError(ref, err)
	}
	renderDraft(a.out, a.dash.Form())
	return nil
}

func (a *App) Set(_ context.Context, field, value string) error {
	if err := a.dash.Form().Set(strings.ToLower(field), value); err != nil {
		return err
	}
	renderDraft(a.out, a.dash.Form())
	return nil
}

func (a *App) Show(_ context.Context) error {
	renderDraft(a.out, a.dash.Form())
	return nil
}

func (a *App) Submit(ctx context.Context) error {
	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	saved, err := a.dash.Submit(ctx)
	if saved == nil {
		return a.checkAuth(err)
	}

	fmt.Fprintf(a.out, "Saved %s - %s (%s)\n", saved.Company, saved.Title, shortID(saved.ID))
	if err != nil {
		fmt.Fprintln(a.out, "Refresh failed, list may be stale:", a.checkAuth(err))
	}
	if a.dash != nil {
		a.renderView()
	}
	return nil
}

func (a *App) Cancel(_ context.Context) error {
	if err := a.dash.Form().Cancel(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Draft discarded")
	return nil
}

func (a *App) Delete(ctx context.Context, ref string) error {
	app, err := a.dash.Lookup(ref)
	if err != nil {
		return lookupError(ref, err)
	}

	ok, err := Confirm(a.reader, fmt.Sprintf("Delete %s - %s?", app.Company, app.Title), a.out)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Not deleted")
		return nil
	}

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	if err := a.dash.Delete(ctx, app.ID); err != nil {
		return a.checkAuth(err)
	}
	fmt.Fprintln(a.out, "Deleted", shortID(app.ID))
	a.renderView()
	return nil
}

func lookupError(ref string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("no application with id %q; run list first", ref)
	}
	return err
}

func (a *App) renderView() {
	renderApplications(a.out, a.dash.View(), a.dash.Stats().Total)
}
