package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/joho/godotenv"
	"github.com/tartampluch/go-babyage/internal/config"
	"github.com/tartampluch/go-babyage/internal/engine"
	"github.com/tartampluch/go-babyage/internal/locale"
	"github.com/tartampluch/go-babyage/internal/server"
	"github.com/tartampluch/go-babyage/internal/store"
)

// main delegates to runMain so deferred calls (closing the log file and the store) run
// before os.Exit.
func main() {
	os.Exit(runMain())
}

// options is the resolved command line.
type options struct {
	version bool
	debug   bool
	setPass bool
	port    string
	store   string
	db      string
	importF string
	user    string
	lang    string
}

// parseOptions reads args with environment defaults. Flags win over the environment.
func parseOptions(fs *flag.FlagSet, args []string) (options, error) {
	var o options
	fs.BoolVar(&o.version, config.FlagVersion, false, config.FlagDescVersion)
	fs.BoolVar(&o.debug, config.FlagDebug, false, config.FlagDescDebug)
	fs.BoolVar(&o.setPass, config.FlagSetPass, false, config.FlagDescSetPass)
	fs.StringVar(&o.port, config.FlagPort, envOr(config.EnvPort, config.DefaultPort), config.FlagDescPort)
	fs.StringVar(&o.store, config.FlagStore, config.StoreSQLite, config.FlagDescStore)
	fs.StringVar(&o.db, config.FlagDB, os.Getenv(config.EnvDB), config.FlagDescDB)
	fs.StringVar(&o.importF, config.FlagImport, "", config.FlagDescImport)
	fs.StringVar(&o.user, config.FlagUser, "", config.FlagDescUser)
	fs.StringVar(&o.lang, config.FlagLang, envOr(config.EnvLang, config.DefaultLanguage), config.FlagDescLang)

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return o, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// runMain manages the application lifecycle and exit codes.
func runMain() int {
	// A missing .env is the normal case; it is reported once logging is up.
	envErr := godotenv.Load(config.DotEnvFile)

	opts, err := parseOptions(flag.CommandLine, os.Args[1:])
	if err != nil {
		return config.ExitCodeError
	}

	if opts.version {
		printVersion()
		return config.ExitCodeSuccess
	}

	logCloser := setupLogging(opts.debug)
	if logCloser != nil {
		defer func() {
			_ = logCloser.Close()
		}()
	}
	if envErr != nil {
		slog.Debug(config.MsgEnvSkipped,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, envErr,
		)
	}

	if opts.setPass {
		if err := storePassword(opts.user, os.Stdin); err != nil {
			slog.Error(config.ErrAppFailed,
				config.LogKeyComponent, config.CompMain,
				config.LogKeyError, err,
			)
			return config.ExitCodeError
		}
		return config.ExitCodeSuccess
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logStartupInfo()

	if err := run(ctx, opts); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		return config.ExitCodeError
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

// run opens the store, applies an optional import and serves until ctx is cancelled.
func run(ctx context.Context, opts options) error {
	storeOpts := store.Options{Backend: opts.store, DBPath: opts.db}

	var fyneApp fyne.App
	if opts.store == config.StorePrefs {
		fyneApp = app.NewWithID(config.AppID)
		storeOpts.Prefs = fyneApp.Preferences()
	} else if storeOpts.DBPath == "" {
		dir, err := getAppDir()
		if err != nil {
			return err
		}
		storeOpts.DBPath = filepath.Join(dir, config.DBFileName)
	}

	kv, err := store.Open(ctx, storeOpts)
	if err != nil {
		return err
	}
	defer func() { _ = kv.Close() }()

	repo := store.NewRepository(kv)

	if opts.importF != "" {
		if err := importProfile(ctx, repo, opts); err != nil {
			return err
		}
	}

	tr := locale.New(opts.lang)
	labels := tr.AxisLabels()

	srv := server.New(opts.port, repo, engine.RealClock{})
	srv.Labels = &labels
	srv.Exporter.FormatSummary = tr.SummaryFormatter()

	if fyneApp != nil {
		// Edits made by the desktop app land in the same preferences.
		fyneApp.Preferences().AddChangeListener(srv.Trigger)
		go func() {
			<-ctx.Done()
			slog.Info(config.MsgCtxCancel, config.LogKeyComponent, config.CompMain)
			fyneApp.Quit()
		}()
	}

	go srv.RunRefresher(ctx, config.RefreshInterval)

	return srv.Start(ctx)
}

// importProfile reads the vCard named by opts.importF and stores its dates.
func importProfile(ctx context.Context, repo *store.Repository, opts options) error {
	src := importSource(opts.importF)
	if src.URL != "" && opts.user != "" {
		pass, err := store.LookupPassword(opts.user)
		if err != nil {
			return err
		}
		src.User, src.Pass = opts.user, pass
	}

	importer := &engine.Importer{Fetcher: engine.NewHTTPFetcher()}
	profile, err := importer.ImportFrom(ctx, src)
	if err != nil {
		return err
	}

	settings, err := repo.LoadSettings(ctx)
	if err != nil {
		return err
	}
	if err := repo.SaveSettings(ctx, profile.Apply(settings)); err != nil {
		return err
	}

	slog.Info(config.MsgImportSaved,
		config.LogKeyComponent, config.CompMain,
		config.LogKeyName, profile.Name,
	)
	return nil
}

// storePassword reads one line from in and saves it as the keyring password of user,
// the secret importProfile later sends to a protected vCard URL.
func storePassword(user string, in io.Reader) error {
	if user == "" {
		return errors.New(config.ErrUserRequired)
	}

	sc := bufio.NewScanner(in)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return err
		}
		return errors.New(config.ErrEmptyPassword)
	}
	pass := strings.TrimSpace(sc.Text())
	if pass == "" {
		return errors.New(config.ErrEmptyPassword)
	}

	if err := store.SavePassword(user, pass); err != nil {
		return err
	}
	slog.Info(config.MsgPassSaved,
		config.LogKeyComponent, config.CompMain,
		config.LogKeyUser, user,
	)
	return nil
}

// importSource treats http(s) URLs as remote and everything else as a local path.
func importSource(raw string) engine.ProfileSource {
	if u, err := url.Parse(raw); err == nil && (u.Scheme == config.SchemeHTTP || u.Scheme == config.SchemeHTTPS) {
		return engine.ProfileSource{URL: raw}
	}
	return engine.ProfileSource{LocalPath: raw}
}

// printVersion outputs the build information to stdout.
func printVersion() {
	fmt.Printf(config.MsgVersionOutput,
		config.AppName,
		config.Version,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo() {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

// setupLogging sends JSON logs to stdout and to a file in the user cache directory.
func setupLogging(debugMode bool) io.Closer {
	writers := []io.Writer{os.Stdout}
	var logFile *os.File

	if dir, err := getAppDir(); err == nil {
		logPath := filepath.Join(dir, config.LogFileName)
		// O_TRUNC resets logs on restart.
		f, err := os.OpenFile(logPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
		if err == nil {
			writers = append(writers, f)
			logFile = f
		} else {
			fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, logPath, err)
		}
	}

	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(io.MultiWriter(writers...), &slog.HandlerOptions{
		Level:     level,
		AddSource: debugMode,
	}))
	slog.SetDefault(logger)

	if logFile == nil {
		return nil
	}
	return logFile
}

// getAppDir returns the per-user cache directory of the app, creating it (0700).
func getAppDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}

	appDir := filepath.Join(cacheDir, config.AppID)
	if err := os.MkdirAll(appDir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}
	return appDir, nil
}
