package app

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/hitoshi/suivi/internal/model"
	"github.com/hitoshi/suivi/internal/session"
)

// runLogin は資格情報を交換してセッションを保存する。
func runLogin(e *env) error {
	fs, asJSON := e.flags("login")
	username := fs.String("username", "", "identifiant")
	passwordFile := fs.String("password-file", "", "fichier contenant le mot de passe (- pour l'entrée standard)")
	if err := fs.Parse(e.args); err != nil {
		return err
	}

	in := bufio.NewReader(e.io.Stdin)
	if *username == "" {
		fmt.Fprint(e.io.Stderr, "Identifiant : ")
		line, err := readLine(in)
		if err != nil {
			return fmt.Errorf("reading username: %w", err)
		}
		*username = line
	}

	password, err := readPassword(e, in, *passwordFile)
	if err != nil {
		return err
	}

	payload := model.LoginPayload{Username: *username, Password: password}
	if err := payload.Validate(); err != nil {
		return err
	}

	user, err := e.rt.Session.Login(e.ctx, payload.Username, payload.Password)
	if err != nil {
		return err
	}

	p := e.printer(*asJSON)
	if p.json {
		return p.writeJSON(user)
	}
	fmt.Fprintf(e.io.Stdout, "Connecté en tant que %s.\n", p.clean(displayName(user)))
	return nil
}

// readPassword は--password-file、端末のプロンプト、標準入力の順に試す。
func readPassword(e *env, in *bufio.Reader, passwordFile string) (string, error) {
	if passwordFile != "" && passwordFile != "-" {
		data, err := os.ReadFile(passwordFile)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", passwordFile, err)
		}
		return strings.TrimRight(string(data), "\r\n"), nil
	}

	if f, ok := e.io.Stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(e.io.Stderr, "Mot de passe : ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(e.io.Stderr)
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(b), nil
	}

	line, err := readLine(in)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return line, nil
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// runLogout はサーバー側のログアウトを試み、保存された資格情報を消去する。
func runLogout(e *env) error {
	fs, _ := e.flags("logout")
	if err := fs.Parse(e.args); err != nil {
		return err
	}
	if err := e.rt.Session.Logout(e.ctx); err != nil {
		return err
	}
	fmt.Fprintln(e.io.Stdout, "Déconnecté.")
	return nil
}

type whoamiOutput struct {
	State session.State `json:"state"`
	User  *model.User   `json:"user,omitempty"`
}

// runWhoami は現在のセッション状態を表示する。
func runWhoami(e *env) error {
	fs, asJSON := e.flags("whoami")
	if err := fs.Parse(e.args); err != nil {
		return err
	}

	out := whoamiOutput{State: e.rt.Session.State()}
	if u, ok := e.rt.Session.User(); ok {
		out.User = &u
	}

	p := e.printer(*asJSON)
	if p.json {
		return p.writeJSON(out)
	}
	if out.User == nil {
		fmt.Fprintln(e.io.Stdout, "Non connecté.")
		return nil
	}
	return p.fields(
		"Utilisateur", out.User.Username,
		"Nom", strings.TrimSpace(out.User.FirstName+" "+out.User.LastName),
		"E-mail", out.User.Email,
	)
}

func displayName(u model.User) string {
	if full := strings.TrimSpace(u.FirstName + " " + u.LastName); full != "" {
		return fmt.Sprintf("%s (%s)", full, u.Username)
	}
	return u.Username
}
