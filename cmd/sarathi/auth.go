package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/boddenberg/sarathi-client-go/internal/domain"
	"github.com/boddenberg/sarathi-client-go/internal/format"
	"github.com/boddenberg/sarathi-client-go/internal/validation"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var loginPhone string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and save the session",
	Long: `Sign in with your phone number. The password is read from the terminal
without echo, or from the first line of stdin when stdin is not a terminal.`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer closeApp(a)

		if err := a.Auth.Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
		return nil
	},
}

var register struct {
	name, phone, city, vehicleType, email, language string
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	Args:  cobra.NoArgs,
	RunE:  runRegister,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in driver",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func init() {
	loginCmd.Flags().StringVarP(&loginPhone, "phone", "p", "", "phone number (prompted when empty)")

	f := registerCmd.Flags()
	f.StringVar(&register.name, "name", "", "full name")
	f.StringVar(&register.phone, "phone", "", "phone number")
	f.StringVar(&register.city, "city", "", "city")
	f.StringVar(&register.vehicleType, "vehicle-type", "auto", "vehicle type")
	f.StringVar(&register.email, "email", "", "email address")
	f.StringVar(&register.language, "language", "", "preferred language")
}

// prompter reads answers from the terminal or from piped stdin.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
	fd  int
	tty bool
}

func newPrompter(cmd *cobra.Command) *prompter {
	fd := int(os.Stdin.Fd())
	return &prompter{
		in:  bufio.NewReader(cmd.InOrStdin()),
		out: cmd.ErrOrStderr(),
		fd:  fd,
		tty: cmd.InOrStdin() == os.Stdin && term.IsTerminal(fd),
	}
}

func (p *prompter) line(label string) (string, error) {
	if p.tty {
		fmt.Fprint(p.out, label+": ")
	}
	s, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && s != "") {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(s), nil
}

func (p *prompter) secret(label string) (string, error) {
	if !p.tty {
		return p.line(label)
	}
	fmt.Fprint(p.out, label+": ")
	b, err := term.ReadPassword(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	return string(b), nil
}

func runLogin(cmd *cobra.Command, _ []string) error {
	p := newPrompter(cmd)
	phone := loginPhone
	var err error
	if phone == "" {
		if phone, err = p.line("Phone Number"); err != nil {
			return err
		}
	}
	password, err := p.secret("Password")
	if err != nil {
		return err
	}
	draft := &domain.LoginRequest{PhoneNumber: phone, Password: password}
	if err := validation.Validate(draft); err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp(a)

	if err := a.Auth.Login(cmd.Context(), phone, password); err != nil {
		return actionErr(err, a.Auth.Snapshot().Meta)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s.\n", a.Auth.Snapshot().User.Name)
	return nil
}

func runRegister(cmd *cobra.Command, _ []string) error {
	p := newPrompter(cmd)
	var err error
	if register.name == "" {
		if register.name, err = p.line("Full Name"); err != nil {
			return err
		}
	}
	if register.phone == "" {
		if register.phone, err = p.line("Phone Number"); err != nil {
			return err
		}
	}
	password, err := p.secret("Password")
	if err != nil {
		return err
	}
	confirm, err := p.secret("Confirm Password")
	if err != nil {
		return err
	}
	if password != confirm {
		return errors.New("passwords do not match")
	}

	draft := &domain.RegisterRequest{
		Name:              register.name,
		PhoneNumber:       register.phone,
		Password:          password,
		City:              format.OptString(register.city),
		VehicleType:       format.OptString(register.vehicleType),
		Email:             format.OptString(register.email),
		PreferredLanguage: register.language,
	}
	if err := validation.Validate(draft); err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp(a)

	if err := a.Auth.Register(cmd.Context(), draft); err != nil {
		return actionErr(err, a.Auth.Snapshot().Meta)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Account created. Please sign in with `sarathi login`.")
	return nil
}

func runWhoami(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp(a)

	if err := requireSession(cmd.Context(), a); err != nil {
		return err
	}
	u := a.Auth.Snapshot().User
	w := cmd.OutOrStdout()
	heading(w, u.Name)
	field(w, "Phone", u.PhoneNumber)
	field(w, "City", format.StrOr(u.City, format.NotSet))
	field(w, "Vehicle Type", format.StrOr(u.VehicleType, format.NotSet))
	field(w, "Email", format.StrOr(u.Email, format.NotSet))
	field(w, "Language", format.StrOr(&u.PreferredLanguage, format.NotSet))
	field(w, "Income Target", format.Rupees(u.MonthlyIncomeTarget))
	field(w, "Member Since", format.DateOr(&u.CreatedAt, format.Dash))
	return nil
}
