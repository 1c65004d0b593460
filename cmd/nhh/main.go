// Command nhh is a CLI client for the handover portal.
package main

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	grpcserver "github.com/and161185/nhh/internal/server/grpc"
)

// ---- config/token store ----

type tokenFile struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func cfgDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "nhh")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "nhh")
}

func tokenPath() string { return filepath.Join(cfgDir(), "token.json") }

func saveToken(tf tokenFile) error {
	if err := os.MkdirAll(cfgDir(), 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(tokenPath(), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(tf)
}

// saveTokens stores the "tokens" object of an auth response.
func saveTokens(resp *structpb.Struct) error {
	tok := resp.GetFields()["tokens"].GetStructValue().GetFields()
	tf := tokenFile{
		AccessToken:  tok["access_token"].GetStringValue(),
		RefreshToken: tok["refresh_token"].GetStringValue(),
		ExpiresAt:    time.Now().Add(time.Duration(tok["expires_in"].GetNumberValue()) * time.Second),
	}
	if tf.AccessToken == "" || tf.RefreshToken == "" {
		return errors.New("response carries no tokens")
	}
	return saveToken(tf)
}

func loadTokens() (tokenFile, error) {
	var tf tokenFile
	b, err := os.ReadFile(tokenPath())
	if err != nil {
		return tf, err
	}
	if err := json.Unmarshal(b, &tf); err != nil {
		return tf, err
	}
	return tf, nil
}

// loadToken returns a still-valid access token.
func loadToken() (string, error) {
	tf, err := loadTokens()
	if err != nil {
		return "", err
	}
	if tf.AccessToken == "" || time.Now().After(tf.ExpiresAt) {
		if tf.RefreshToken != "" {
			return "", errors.New("access token expired (run refresh)")
		}
		return "", errors.New("no valid token (login required)")
	}
	return tf.AccessToken, nil
}

// ---- grpc dial ----

type bearerCreds struct {
	token     string
	plaintext bool
}

func (b bearerCreds) GetRequestMetadata(context.Context, ...string) (map[string]string, error) {
	return map[string]string{"authorization": "Bearer " + b.token}, nil
}
func (b bearerCreds) RequireTransportSecurity() bool { return !b.plaintext }

func loadTLS(caPath string, skipVerify bool) (credentials.TransportCredentials, error) {
	if skipVerify {
		return credentials.NewTLS(&tls.Config{InsecureSkipVerify: true}), nil //nolint:gosec // dev only
	}
	if caPath == "" {
		return credentials.NewClientTLSFromCert(nil, ""), nil
	}
	pem, err := os.ReadFile(caPath)
	if err != nil {
		return nil, err
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, errors.New("bad CA cert")
	}
	return credentials.NewTLS(&tls.Config{RootCAs: pool}), nil
}

// conn holds the global connection flags.
type conn struct {
	addr       string
	caPath     string
	skipVerify bool
	plaintext  bool
	dsn        string

	dialer func(context.Context, string) (net.Conn, error) // tests
}

func (c conn) dial(ctx context.Context, bearer string) (*grpc.ClientConn, *grpcserver.Client, error) {
	var opts []grpc.DialOption
	switch {
	case c.plaintext || c.dialer != nil:
		opts = append(opts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	default:
		creds, err := loadTLS(c.caPath, c.skipVerify)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, grpc.WithTransportCredentials(creds))
	}
	if c.dialer != nil {
		opts = append(opts, grpc.WithContextDialer(c.dialer))
	}
	if bearer != "" {
		opts = append(opts, grpc.WithPerRPCCredentials(bearerCreds{token: bearer, plaintext: c.plaintext || c.dialer != nil}))
	}
	opts = append(opts, grpc.WithUserAgent("nhh-cli/"+version))
	//nolint:staticcheck // DialContext is supported through 1.x; migrate when grpc.NewClient is stable
	cc, err := grpc.DialContext(ctx, c.addr, opts...)
	if err != nil {
		return nil, nil, err
	}
	return cc, grpcserver.NewClient(cc), nil
}

// ---- utils ----

func readAll(p string) ([]byte, error) {
	if p == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(p)
}

func printJSON(w io.Writer, v any) {
	if s, ok := v.(*structpb.Struct); ok {
		v = s.AsMap()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func usage() {
	fmt.Fprintf(os.Stderr, `nhh CLI
Usage:
  nhh -addr HOST:PORT [-cacert file | -insecure | -plaintext] <cmd> [args]

Commands:
  version
  register        -email <e> -sn <service no> -name <n> -rank <r> -station <s> [-phone <p>]   (saves tokens)
  login           -email <e> -sn <service no>                                                 (saves tokens)
  verify          -email <e> -sn <service no>
  refresh                                                                                      (rotates saved tokens)
  logout
  me
  officers                                                                                     (command only)
  listings
  listing         -id <uuid>
  create-listing  -file <json|->
  listing-status  -id <uuid> -status draft|published|archived
  interest        -listing <uuid> [-message <m>]
  interests       -listing <uuid>
  interest-status -id <uuid> -status pending|accepted|declined
  transfer        -file <json|->
  transfers       -listing <uuid>
  transfer-status -id <uuid> -status pending|approved|rejected|completed [-consent <url>]
  seed            -dsn <postgres dsn>                                                          (direct DB)
  purge           -dsn <postgres dsn>                                                          (direct DB)
`)
	os.Exit(2)
}

// ---- main ----

var (
	version   = "dev"
	buildDate = "unknown"
)

// main dispatches subcommands.
func main() {
	var c conn
	flag.StringVar(&c.addr, "addr", "localhost:8443", "server addr")
	flag.StringVar(&c.caPath, "cacert", "", "CA cert (PEM)")
	flag.BoolVar(&c.skipVerify, "insecure", false, "skip cert verify (dev)")
	flag.BoolVar(&c.plaintext, "plaintext", false, "no TLS (dev server)")
	flag.StringVar(&c.dsn, "dsn", os.Getenv("DATABASE_URL"), "PostgreSQL DSN for seed/purge")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
	}
	name := flag.Arg(0)
	if name == "version" {
		fmt.Printf("nhh %s (%s)\n", version, buildDate)
		return
	}
	cmd, ok := commands[name]
	if !ok {
		usage()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := cmd(ctx, c, flag.Args()[1:], os.Stdout); err != nil {
		fail(err)
	}
}

// ---- helpers ----

func fail(err error) {
	if s, ok := status.FromError(err); ok {
		fmt.Fprintf(os.Stderr, "rpc error: code=%s msg=%s\n", s.Code(), s.Message())
		os.Exit(1)
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
