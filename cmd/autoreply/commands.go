package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/osman-haider/SmartXBot/autoreply"
	"github.com/osman-haider/SmartXBot/backend"
	"github.com/osman-haider/SmartXBot/browser"
	"github.com/osman-haider/SmartXBot/configs"
	"github.com/osman-haider/SmartXBot/cookies"
	"github.com/osman-haider/SmartXBot/pacing"
)

// runFlags are shared by run and schedule.
type runFlags struct {
	headless     bool
	binPath      string
	backendURL   string
	handle       string
	minPosts     int
	keywords     []string
	dryRun       bool
	resetCookies bool
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.headless, "headless", true, "run the browser without a window")
	cmd.Flags().StringVar(&f.binPath, "bin", "", "browser binary (default $ROD_BROWSER_BIN)")
	cmd.Flags().StringVar(&f.backendURL, "backend", "", "reply service URL (default $SMARTX_BACKEND_URL)")
	cmd.Flags().StringVar(&f.handle, "handle", "", "your own X handle, never replied to (default $SMARTX_MY_HANDLE)")
	cmd.Flags().IntVar(&f.minPosts, "min-posts", 0, "posts to load per keyword before replying (default $SMARTX_MIN_POSTS)")
	cmd.Flags().StringSliceVar(&f.keywords, "keywords", nil, "keywords to search instead of the service's list")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "decide replies but never type or submit them")
	cmd.Flags().BoolVar(&f.resetCookies, "reset-cookies", false, "delete the saved session before starting")
}

// apply layers explicit flags over the loaded configuration.
func (f *runFlags) apply(cfg *configs.Config) {
	if f.binPath == "" {
		f.binPath = os.Getenv("ROD_BROWSER_BIN")
	}
	if f.backendURL != "" {
		cfg.BackendURL = f.backendURL
	}
	if f.handle != "" {
		cfg.MyHandle = f.handle
	}
	if f.minPosts > 0 {
		cfg.MinPosts = f.minPosts
	}

	configs.InitHeadless(f.headless)
	configs.SetBinPath(f.binPath)
}

func newRootCmd() *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:   "autoreply",
		Short: "Search X for keywords and reply to matching posts",
		Long: `autoreply drives a browser through X's advanced search for every configured
keyword and replies to new posts with text from the reply service.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (default $SMARTX_LOG_LEVEL or info)")

	cfg := configs.Default()
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		*cfg = *configs.Load()
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		cfg.ApplyLogLevel()
	}

	rootCmd.AddCommand(newRunCmd(cfg))
	rootCmd.AddCommand(newLoginCmd(cfg))
	rootCmd.AddCommand(newScheduleCmd(cfg))

	return rootCmd
}

func newRunCmd(cfg *configs.Config) *cobra.Command {
	flags := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one pass over all keywords",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.apply(cfg)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			manager, err := newManager(flags)
			if err != nil {
				return err
			}
			defer manager.CloseBrowser()

			stats, err := runOnce(ctx, cfg, manager, flags)
			if stats != nil {
				fmt.Println(stats)
			}
			return err
		},
	}
	flags.register(cmd)
	return cmd
}

func newLoginCmd(cfg *configs.Config) *cobra.Command {
	var (
		binPath string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Open a browser window, wait for you to sign in to X and save the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if binPath == "" {
				binPath = os.Getenv("ROD_BROWSER_BIN")
			}
			cookiePath := cookies.GetCookiesFilePath()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			// 登录需要有界面的浏览器
			b := browser.NewBrowser(false, browser.WithBinPath(binPath), browser.WithCookiesPath(cookiePath))
			defer b.Close()

			page := b.NewPage()
			defer page.Close()
			browser.ConfigurePage(page)

			if err := autoreply.Login(ctx, page, cookiePath, timeout); err != nil {
				return err
			}
			fmt.Printf("session saved to %s\n", cookiePath)
			return nil
		},
	}
	cmd.Flags().StringVar(&binPath, "bin", "", "browser binary (default $ROD_BROWSER_BIN)")
	cmd.Flags().DurationVar(&timeout, "timeout", autoreply.DefaultLoginTimeout, "how long to wait for sign-in")
	return cmd
}

func newScheduleCmd(cfg *configs.Config) *cobra.Command {
	var (
		spec       string
		jobTimeout time.Duration
	)
	flags := &runFlags{}
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run a pass on a cron schedule until interrupted",
		Long: `Run a full pass every time the cron expression fires, e.g. --cron "0 */3 * * *".
A trigger that fires while a pass is still running waits for it to finish.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.apply(cfg)

			manager, err := newManager(flags)
			if err != nil {
				return err
			}
			defer manager.CloseBrowser()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			c := cron.New()
			_, err = c.AddFunc(spec, func() {
				jobCtx, cancel := context.WithTimeout(ctx, jobTimeout)
				defer cancel()

				logrus.Info("scheduled run starting")
				stats, err := runOnce(jobCtx, cfg, manager, flags)
				if err != nil {
					logrus.Errorf("scheduled run failed: %v", err)
				}
				if stats != nil {
					logrus.Infof("scheduled run done: %s", stats)
				}
			})
			if err != nil {
				return errors.Wrapf(err, "invalid cron expression %q", spec)
			}

			c.Start()
			logrus.Infof("scheduler started (%s)", spec)

			<-ctx.Done()
			logrus.Info("stopping scheduler")
			<-c.Stop().Done()
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&spec, "cron", "0 */3 * * *", "cron expression (minute hour dom month dow)")
	cmd.Flags().DurationVar(&jobTimeout, "job-timeout", 3*time.Hour, "upper bound for one pass")
	return cmd
}

func newManager(flags *runFlags) (*browser.Manager, error) {
	cookiePath := cookies.GetCookiesFilePath()
	if flags.resetCookies {
		if err := cookies.NewLoadCookie(cookiePath).DeleteCookies(); err != nil {
			return nil, err
		}
		logrus.Infof("deleted saved session %s", cookiePath)
	}
	return browser.NewManager(configs.IsHeadless(), configs.GetBinPath(), cookiePath), nil
}

func runOnce(ctx context.Context, cfg *configs.Config, manager *browser.Manager, flags *runFlags) (*autoreply.RunStats, error) {
	client := backend.NewClient(cfg.BackendURL)

	opts := autoreply.OptionsFromConfig(cfg)
	opts.Keywords = flags.keywords
	opts.DryRun = flags.dryRun
	if kc, err := client.KeywordsConfig(ctx); err == nil {
		opts.Window = kc.Window()
	} else {
		logrus.Debugf("no keywords config, searching without date window: %v", err)
	}

	return autoreply.RunWithBrowser(ctx, manager, client, client, pacing.NewRandomized(nil), opts)
}
