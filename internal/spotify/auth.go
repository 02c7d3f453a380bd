package spotify

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	spotifyapi "github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
)

var (
	ErrNoCredentials = errors.New("spotify: client id and secret are required")
	ErrStateMismatch = errors.New("spotify: authorization state mismatch")
)

// Scopes are the permissions the deck asks for: reading the player, and remote control.
var Scopes = []string{
	spotifyauth.ScopeUserReadPlaybackState,
	spotifyauth.ScopeUserModifyPlaybackState,
}

type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// TokenCache is where the OAuth token is kept between runs.
	TokenCache string
	Market     string
	CoverSize  int
}

// Session is an authenticated Client that remembers its token file.
type Session struct {
	*Client
	cache string
	log   logrus.FieldLogger
}

// Connect authenticates with the cached token if there is a usable one. Otherwise it prints the
// authorization URL to out and reads the URL the browser was redirected to (or just the code) from in.
func Connect(ctx context.Context, cfg Config, in io.Reader, out io.Writer, log logrus.FieldLogger) (*Session, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, ErrNoCredentials
	}
	auth := spotifyauth.New(
		spotifyauth.WithClientID(cfg.ClientID),
		spotifyauth.WithClientSecret(cfg.ClientSecret),
		spotifyauth.WithRedirectURL(cfg.RedirectURL),
		spotifyauth.WithScopes(Scopes...),
	)

	tok, err := LoadToken(cfg.TokenCache)
	switch {
	case err == nil && (tok.Valid() || tok.RefreshToken != ""):
		log.WithField("cache", cfg.TokenCache).Info("using cached spotify token")
	default:
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			log.WithError(err).Warn("ignoring unreadable token cache")
		}
		tok, err = authorize(ctx, auth, in, out)
		if err != nil {
			return nil, err
		}
		if err := SaveToken(cfg.TokenCache, tok); err != nil {
			log.WithError(err).Warn("could not cache spotify token")
		}
	}

	api := spotifyapi.New(auth.Client(ctx, tok))
	return &Session{
		Client: NewClient(api, cfg.Market, cfg.CoverSize),
		cache:  cfg.TokenCache,
		log:    log,
	}, nil
}

// Close writes the current token back to the cache, so a refresh done during the run is kept.
func (s *Session) Close() error {
	tok, err := s.Client.api.Token()
	if err != nil {
		return fmt.Errorf("spotify: current token: %w", err)
	}
	if err := SaveToken(s.cache, tok); err != nil {
		return err
	}
	s.log.WithField("cache", s.cache).Debug("saved spotify token")
	return nil
}

func authorize(ctx context.Context, auth *spotifyauth.Authenticator, in io.Reader, out io.Writer) (*oauth2.Token, error) {
	state := uuid.NewString()
	fmt.Fprintln(out, "Log in to Spotify by visiting this page in your browser:")
	fmt.Fprintln(out, auth.AuthURL(state))
	fmt.Fprint(out, "Paste the URL you were redirected to: ")

	sc := bufio.NewScanner(in)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("spotify: read redirect: %w", err)
		}
		return nil, fmt.Errorf("spotify: read redirect: %w", io.ErrUnexpectedEOF)
	}

	code, err := ParseRedirect(sc.Text(), state)
	if err != nil {
		return nil, err
	}
	tok, err := auth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("spotify: exchange code: %w", err)
	}
	return tok, nil
}

// ParseRedirect pulls the authorization code out of what the user pasted: either the whole redirect
// URL, which must carry state, or the bare code.
func ParseRedirect(pasted, state string) (string, error) {
	pasted = strings.TrimSpace(pasted)
	if pasted == "" {
		return "", errors.New("spotify: empty authorization code")
	}
	if !strings.Contains(pasted, "?") {
		return pasted, nil
	}

	u, err := url.Parse(pasted)
	if err != nil {
		return "", fmt.Errorf("spotify: parse redirect: %w", err)
	}
	q := u.Query()
	if e := q.Get("error"); e != "" {
		return "", fmt.Errorf("spotify: authorization denied: %s", e)
	}
	if q.Get("state") != state {
		return "", ErrStateMismatch
	}
	code := q.Get("code")
	if code == "" {
		return "", errors.New("spotify: redirect has no code")
	}
	return code, nil
}

func LoadToken(path string) (*oauth2.Token, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tok oauth2.Token
	if err := json.Unmarshal(raw, &tok); err != nil {
		return nil, fmt.Errorf("spotify: token cache %s: %w", path, err)
	}
	return &tok, nil
}

// SaveToken writes tok to path, readable only by the owner.
func SaveToken(path string, tok *oauth2.Token) error {
	raw, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return fmt.Errorf("spotify: write token cache: %w", err)
	}
	return nil
}
