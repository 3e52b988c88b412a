package webclient

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/folioweb/siteserver/types"
)

const defaultBannerTTL = 3 * time.Second

// LoginForm mirrors the login popup's fields.
type LoginForm struct {
	Username string
	Password string
}

// SignupForm mirrors the signup popup's fields.
type SignupForm struct {
	Username string
	Email    string
	Password string
	Phone    string
}

// Banner is the transient toast shown after an action. It auto-dismisses.
type Banner struct {
	Visible bool
	Text    string
	Success bool
}

// State is a snapshot of everything the page displays.
type State struct {
	ShowAuthButtons bool
	ShowUserInfo    bool
	Welcome         string
	ShowAdminPanel  bool
	LoginOpen       bool
	SignupOpen      bool
	Banner          Banner
	AdminMessage    string
	ContactForm     types.ContactForm
	LoginForm       LoginForm
	SignupForm      SignupForm
}

// UI is the session/UI state controller. All display state derives from
// the persisted session through Refresh; login, logout, and page load
// are the only points that touch the session store.
type UI struct {
	mu          sync.Mutex
	client      *Client
	sessions    SessionStore
	bannerTTL   time.Duration
	bannerTimer *time.Timer

	session *Session

	showAuthButtons bool
	showUserInfo    bool
	welcome         string
	showAdminPanel  bool
	loginOpen       bool
	signupOpen      bool
	banner          Banner
	adminMessage    string
	contactForm     types.ContactForm
	loginForm       LoginForm
	signupForm      SignupForm

	autocomplete *Autocomplete
}

func NewUI(client *Client, sessions SessionStore) *UI {
	u := &UI{
		client:          client,
		sessions:        sessions,
		bannerTTL:       defaultBannerTTL,
		showAuthButtons: true,
	}
	u.autocomplete = newAutocomplete(adminFetcher{ui: u}, defaultDebounce, u.applyUserDetail)
	return u
}

// Autocomplete returns the admin search controller bound to this UI.
func (u *UI) Autocomplete() *Autocomplete {
	return u.autocomplete
}

// State returns a snapshot of the current display state.
func (u *UI) State() State {
	u.mu.Lock()
	defer u.mu.Unlock()
	return State{
		ShowAuthButtons: u.showAuthButtons,
		ShowUserInfo:    u.showUserInfo,
		Welcome:         u.welcome,
		ShowAdminPanel:  u.showAdminPanel,
		LoginOpen:       u.loginOpen,
		SignupOpen:      u.signupOpen,
		Banner:          u.banner,
		AdminMessage:    u.adminMessage,
		ContactForm:     u.contactForm,
		LoginForm:       u.loginForm,
		SignupForm:      u.signupForm,
	}
}

// Session returns the in-memory copy of the current session.
func (u *UI) Session() (Session, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.session == nil {
		return Session{}, false
	}
	return *u.session, true
}

// PageLoad runs the page-load sequence: reflect the persisted session,
// populate the contact form for a logged-in user, and clear auth forms.
func (u *UI) PageLoad(ctx context.Context) error {
	if err := u.Refresh(ctx); err != nil {
		return err
	}
	u.populateFromProfile(ctx)
	u.clearAuthForms()
	return nil
}

// Refresh is the pure state-reflection step: display state follows the
// persisted session and nothing else.
func (u *UI) Refresh(ctx context.Context) error {
	session, present, err := u.sessions.Load(ctx)
	if err != nil {
		return err
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	if present {
		u.session = &session
		u.showAuthButtons = false
		u.showUserInfo = true
		u.welcome = fmt.Sprintf("Hi, %s", session.Username)
		u.showAdminPanel = session.Role == types.RoleAdmin
	} else {
		u.session = nil
		u.showAuthButtons = true
		u.showUserInfo = false
		u.welcome = ""
		u.showAdminPanel = false
	}
	return nil
}

func (u *UI) OpenLogin()  { u.mu.Lock(); u.loginOpen = true; u.mu.Unlock() }
func (u *UI) CloseLogin() { u.mu.Lock(); u.loginOpen = false; u.mu.Unlock() }

func (u *UI) OpenSignup()  { u.mu.Lock(); u.signupOpen = true; u.mu.Unlock() }
func (u *UI) CloseSignup() { u.mu.Lock(); u.signupOpen = false; u.mu.Unlock() }

func (u *UI) SwitchToSignup() {
	u.mu.Lock()
	u.loginOpen = false
	u.signupOpen = true
	u.mu.Unlock()
}

func (u *UI) SwitchToLogin() {
	u.mu.Lock()
	u.signupOpen = false
	u.loginOpen = true
	u.mu.Unlock()
}

func (u *UI) EnterLogin(username, password string) {
	u.mu.Lock()
	u.loginForm = LoginForm{Username: username, Password: password}
	u.mu.Unlock()
}

func (u *UI) EnterSignup(form SignupForm) {
	u.mu.Lock()
	u.signupForm = form
	u.mu.Unlock()
}

func (u *UI) EnterContact(form types.ContactForm) {
	u.mu.Lock()
	u.contactForm = form
	u.mu.Unlock()
}

// SubmitLogin sends the login form. On success the session is persisted,
// display state re-derived, and the contact form populated.
func (u *UI) SubmitLogin(ctx context.Context) error {
	u.mu.Lock()
	form := u.loginForm
	u.mu.Unlock()

	session, message, err := u.client.Login(ctx, form.Username, form.Password)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			u.showMessage(apiErr.Message, false)
		} else {
			u.showMessage("Error during login", false)
		}
		return err
	}

	if err := u.sessions.Save(ctx, session); err != nil {
		u.showMessage("Error during login", false)
		return err
	}

	u.CloseLogin()
	if err := u.Refresh(ctx); err != nil {
		return err
	}
	u.populateFromProfile(ctx)
	u.showMessage(message, true)
	u.clearAuthForms()
	return nil
}

// SubmitSignup sends the signup form. On success the signup popup gives
// way to the login popup.
func (u *UI) SubmitSignup(ctx context.Context) error {
	u.mu.Lock()
	form := u.signupForm
	u.mu.Unlock()

	message, err := u.client.Signup(ctx, form.Username, form.Email, form.Password, form.Phone)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			u.showMessage(apiErr.Message, false)
		} else {
			u.showMessage("Error during signup", false)
		}
		return err
	}

	u.showMessage(message, true)
	u.SwitchToLogin()
	u.clearAuthForms()
	return nil
}

// Logout clears the persisted session and every form field, then
// re-derives display state so nothing from the previous session remains.
func (u *UI) Logout(ctx context.Context) error {
	if err := u.sessions.Clear(ctx); err != nil {
		return err
	}
	if err := u.Refresh(ctx); err != nil {
		return err
	}

	u.clearAuthForms()
	u.mu.Lock()
	u.contactForm = types.ContactForm{}
	u.adminMessage = ""
	u.mu.Unlock()
	u.autocomplete.Reset()

	u.showMessage("You have been logged out.", true)
	return nil
}

// SubmitContact validates locally first: invalid input shows the
// combined message and sends no request. On success the form and the
// admin search box are cleared and the profile re-populated.
func (u *UI) SubmitContact(ctx context.Context) error {
	u.mu.Lock()
	form := u.contactForm
	u.mu.Unlock()

	if err := form.Validate(); err != nil {
		u.showMessage(err.Error(), false)
		return err
	}

	message, err := u.client.SubmitContact(ctx, form)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			u.showMessage(apiErr.Message, false)
		} else {
			u.showMessage("Network error. Please check your connection and try again.", false)
		}
		return err
	}

	u.mu.Lock()
	u.contactForm = types.ContactForm{}
	u.mu.Unlock()
	u.autocomplete.Reset()

	u.showMessage(message, true)
	u.populateFromProfile(ctx)
	return nil
}

// populateFromProfile fills the contact form from /user-info for the
// logged-in user. Best-effort: failures leave the form untouched.
func (u *UI) populateFromProfile(ctx context.Context) {
	u.mu.Lock()
	var username string
	if u.session != nil {
		username = u.session.Username
	}
	u.mu.Unlock()
	if username == "" {
		return
	}

	profile, err := u.client.UserInfo(ctx, username)
	if err != nil {
		return
	}

	u.mu.Lock()
	u.contactForm.Name = profile.Username
	u.contactForm.Email = profile.Email
	u.contactForm.Phone = profile.Phone
	u.mu.Unlock()
}

// applyUserDetail is the autocomplete selection callback: a found user
// populates the contact form, a miss clears it and surfaces the message.
func (u *UI) applyUserDetail(username string, profile types.Profile, err error) {
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			u.mu.Lock()
			u.adminMessage = apiErr.Message
			u.contactForm.Name = ""
			u.contactForm.Email = ""
			u.contactForm.Phone = ""
			u.mu.Unlock()
			u.showMessage(apiErr.Message, false)
			return
		}
		u.mu.Lock()
		u.adminMessage = "Error fetching user details. Please try again."
		u.mu.Unlock()
		u.showMessage("Error fetching user details.", false)
		return
	}

	u.mu.Lock()
	u.adminMessage = ""
	u.contactForm.Name = profile.Username
	u.contactForm.Email = profile.Email
	u.contactForm.Phone = profile.Phone
	u.mu.Unlock()
	u.showMessage(fmt.Sprintf("User '%s' data populated successfully.", username), true)
}

func (u *UI) clearAuthForms() {
	u.mu.Lock()
	u.loginForm = LoginForm{}
	u.signupForm = SignupForm{}
	u.mu.Unlock()
}

// showMessage displays the banner and schedules its dismissal. A new
// message resets the pending dismissal timer.
func (u *UI) showMessage(text string, success bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.banner = Banner{Visible: true, Text: text, Success: success}
	if u.bannerTimer != nil {
		u.bannerTimer.Stop()
	}
	u.bannerTimer = time.AfterFunc(u.bannerTTL, func() {
		u.mu.Lock()
		u.banner.Visible = false
		u.mu.Unlock()
	})
}

// adminFetcher binds the API client to the current session's token.
type adminFetcher struct {
	ui *UI
}

func (f adminFetcher) SearchUsernames(ctx context.Context, term string) ([]string, error) {
	return f.ui.client.SearchUsernames(ctx, f.token(), term)
}

func (f adminFetcher) SearchUser(ctx context.Context, username string) (types.Profile, error) {
	return f.ui.client.SearchUser(ctx, f.token(), username)
}

func (f adminFetcher) token() string {
	f.ui.mu.Lock()
	defer f.ui.mu.Unlock()
	if f.ui.session == nil {
		return ""
	}
	return f.ui.session.Token
}
