package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/and161185/nhh/internal/crypto"
	"github.com/and161185/nhh/internal/migrate"
	"github.com/and161185/nhh/internal/repository/postgres"
	"github.com/and161185/nhh/internal/service"
)

type command func(ctx context.Context, c conn, args []string, out io.Writer) error

var commands map[string]command

func init() {
	commands = map[string]command{
		"register":        cmdRegister,
		"login":           cmdLogin,
		"verify":          cmdVerify,
		"refresh":         cmdRefresh,
		"logout":          cmdLogout,
		"me":              simple("Me", true),
		"officers":        simple("ListOfficers", true),
		"listings":        simple("ListListings", false),
		"listing":         byID("GetListing", "id", false),
		"create-listing":  fromFile("CreateListing"),
		"listing-status":  withStatus("UpdateListingStatus"),
		"interest":        cmdInterest,
		"interests":       byID("ListInterests", "listing_id", true),
		"interest-status": withStatus("UpdateInterestStatus"),
		"transfer":        fromFile("CreateTransfer"),
		"transfers":       byID("ListTransfers", "listing_id", true),
		"transfer-status": withStatus("UpdateTransferStatus"),
		"seed":            cmdSeed,
		"purge":           cmdPurge,
	}
}

var errUsage = errors.New("missing required flags")

// call dials, invokes method and prints the reply. With auth the saved access
// token is required; otherwise it is attached when present.
func call(ctx context.Context, c conn, method string, req map[string]any, auth bool, out io.Writer) (*structpb.Struct, error) {
	token, err := loadToken()
	if err != nil {
		if auth {
			return nil, err
		}
		token = ""
	}
	in, err := structpb.NewStruct(req)
	if err != nil {
		return nil, err
	}
	cc, cli, err := c.dial(ctx, token)
	if err != nil {
		return nil, err
	}
	defer cc.Close()

	resp, err := cli.Call(ctx, method, in)
	if err != nil {
		return nil, err
	}
	printJSON(out, resp)
	return resp, nil
}

func credentialFlags(name string, args []string) (map[string]any, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	email := fs.String("email", "", "official e-mail")
	sn := fs.String("sn", "", "service number")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *email == "" || *sn == "" {
		return nil, fmt.Errorf("%w: need -email and -sn", errUsage)
	}
	return map[string]any{"official_email": *email, "service_number": *sn}, nil
}

func cmdRegister(ctx context.Context, c conn, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	email := fs.String("email", "", "official e-mail (@navy.mil.ng)")
	sn := fs.String("sn", "", "service number")
	name := fs.String("name", "", "full name")
	rank := fs.String("rank", "", "rank")
	station := fs.String("station", "", "station")
	phone := fs.String("phone", "", "phone (optional)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *sn == "" || *name == "" {
		return fmt.Errorf("%w: need -email -sn -name", errUsage)
	}
	req := map[string]any{
		"official_email": *email,
		"service_number": *sn,
		"full_name":      *name,
		"rank":           *rank,
		"station":        *station,
	}
	if *phone != "" {
		req["phone"] = *phone
	}
	resp, err := call(ctx, c, "Register", req, false, out)
	if err != nil {
		return err
	}
	return saveTokens(resp)
}

func cmdLogin(ctx context.Context, c conn, args []string, out io.Writer) error {
	req, err := credentialFlags("login", args)
	if err != nil {
		return err
	}
	resp, err := call(ctx, c, "Login", req, false, io.Discard)
	if err != nil {
		return err
	}
	return signedIn(resp, out)
}

// signedIn stores the issued pair and reports who it belongs to.
func signedIn(resp *structpb.Struct, out io.Writer) error {
	if err := saveTokens(resp); err != nil {
		return err
	}
	o := resp.GetFields()["officer"].GetStructValue().GetFields()
	fmt.Fprintf(out, "ok %s %s\n", o["role"].GetStringValue(), o["official_email"].GetStringValue())
	return nil
}

func cmdVerify(ctx context.Context, c conn, args []string, out io.Writer) error {
	req, err := credentialFlags("verify", args)
	if err != nil {
		return err
	}
	_, err = call(ctx, c, "Verify", req, false, out)
	return err
}

func cmdRefresh(ctx context.Context, c conn, _ []string, out io.Writer) error {
	tf, err := loadTokens()
	if err != nil || tf.RefreshToken == "" {
		return errors.New("no refresh token (login required)")
	}
	resp, err := call(ctx, c, "Refresh", map[string]any{"refresh_token": tf.RefreshToken}, false, io.Discard)
	if err != nil {
		return err
	}
	return signedIn(resp, out)
}

func cmdLogout(ctx context.Context, c conn, _ []string, out io.Writer) error {
	tf, err := loadTokens()
	if err != nil || tf.RefreshToken == "" {
		return errors.New("not logged in")
	}
	if _, err := call(ctx, c, "Logout", map[string]any{"refresh_token": tf.RefreshToken}, false, io.Discard); err != nil {
		return err
	}
	if err := os.Remove(tokenPath()); err != nil {
		return err
	}
	fmt.Fprintln(out, "ok")
	return nil
}

func cmdInterest(ctx context.Context, c conn, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("interest", flag.ContinueOnError)
	listing := fs.String("listing", "", "listing id (uuid)")
	msg := fs.String("message", "", "message to the owner")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *listing == "" {
		return fmt.Errorf("%w: need -listing", errUsage)
	}
	_, err := call(ctx, c, "CreateInterest", map[string]any{"listing_id": *listing, "message": *msg}, true, out)
	return err
}

func simple(method string, auth bool) command {
	return func(ctx context.Context, c conn, _ []string, out io.Writer) error {
		_, err := call(ctx, c, method, nil, auth, out)
		return err
	}
}

// byID sends a single uuid taken from -id (or -listing for listing-scoped reads) as key.
func byID(method, key string, auth bool) command {
	flagName := "id"
	if key == "listing_id" {
		flagName = "listing"
	}
	return func(ctx context.Context, c conn, args []string, out io.Writer) error {
		fs := flag.NewFlagSet(method, flag.ContinueOnError)
		id := fs.String(flagName, "", "uuid")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if *id == "" {
			return fmt.Errorf("%w: need -%s", errUsage, flagName)
		}
		_, err := call(ctx, c, method, map[string]any{key: *id}, auth, out)
		return err
	}
}

func withStatus(method string) command {
	return func(ctx context.Context, c conn, args []string, out io.Writer) error {
		fs := flag.NewFlagSet(method, flag.ContinueOnError)
		id := fs.String("id", "", "uuid")
		st := fs.String("status", "", "new status")
		consent := fs.String("consent", "", "consent document URL (transfers)")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if *id == "" || *st == "" {
			return fmt.Errorf("%w: need -id and -status", errUsage)
		}
		req := map[string]any{"id": *id, "status": *st}
		if *consent != "" {
			req["consent_pdf_url"] = *consent
		}
		_, err := call(ctx, c, method, req, true, out)
		return err
	}
}

// fromFile sends a JSON object read from -file ('-' = stdin).
func fromFile(method string) command {
	return func(ctx context.Context, c conn, args []string, out io.Writer) error {
		fs := flag.NewFlagSet(method, flag.ContinueOnError)
		file := fs.String("file", "", "request JSON ('-'=stdin)")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if *file == "" {
			return fmt.Errorf("%w: need -file", errUsage)
		}
		b, err := readAll(*file)
		if err != nil {
			return err
		}
		var s structpb.Struct
		if err := protojson.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("parse %s: %w", *file, err)
		}
		_, err = call(ctx, c, method, s.AsMap(), true, out)
		return err
	}
}

// ---- direct DB maintenance ----

func openDB(ctx context.Context, c conn, log *zap.Logger) (*postgres.DB, error) {
	if c.dsn == "" {
		return nil, fmt.Errorf("%w: need -dsn or DATABASE_URL", errUsage)
	}
	if err := migrate.Up(ctx, c.dsn, log); err != nil {
		return nil, err
	}
	return postgres.New(ctx, c.dsn)
}

func cmdSeed(ctx context.Context, c conn, _ []string, out io.Writer) error {
	log, _ := zap.NewDevelopment()
	defer func() { _ = log.Sync() }()

	db, err := openDB(ctx, c, log)
	if err != nil {
		return err
	}
	defer db.Close()

	seeder := service.NewSeeder(postgres.NewOfficerRepo(db), postgres.NewListingRepo(db),
		crypto.NewArgon2Hasher(crypto.DefaultParams), log)
	if err := seeder.Seed(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, "seeded")
	return nil
}

func cmdPurge(ctx context.Context, c conn, _ []string, out io.Writer) error {
	log, _ := zap.NewDevelopment()
	defer func() { _ = log.Sync() }()

	db, err := openDB(ctx, c, log)
	if err != nil {
		return err
	}
	defer db.Close()

	store := service.NewSessionStore(postgres.NewSessionRepo(db), crypto.NewArgon2Hasher(crypto.DefaultParams), log)
	n, err := store.PurgeExpiredSessions(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "purged %d expired sessions\n", n)
	return nil
}
