package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lu-zhengda/tagside/internal/app"
	"github.com/lu-zhengda/tagside/internal/config"
	"github.com/lu-zhengda/tagside/internal/i18n"
	"github.com/lu-zhengda/tagside/internal/sidebar"
	"github.com/lu-zhengda/tagside/internal/store/sqlite"
)

var (
	// version is set via ldflags at build time.
	version = "dev"
	cfgFile string

	// jsonFlag enables JSON output for all commands.
	jsonFlag bool

	// accountFlag selects the account for tag commands.
	accountFlag string
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "tagside",
		Short:   "Mail tag sidebar",
		Long:    "Render, serve and organize the tag sidebar of a mail client.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			if shell, _ := cmd.Flags().GetString("generate-completion"); shell != "" {
				switch shell {
				case "bash":
					return cmd.Root().GenBashCompletion(os.Stdout)
				case "zsh":
					return cmd.Root().GenZshCompletion(os.Stdout)
				case "fish":
					return cmd.Root().GenFishCompletion(os.Stdout, true)
				default:
					return fmt.Errorf("unsupported shell: %s (use bash, zsh, or fish)", shell)
				}
			}
			return runPreview(cmd.Context())
		},
	}
	root.SetVersionTemplate(fmt.Sprintf("tagside %s\n", version))
	root.CompletionOptions.DisableDefaultCmd = true
	root.Flags().String("generate-completion", "", "Generate shell completion (bash, zsh, fish)")
	root.Flags().MarkHidden("generate-completion")
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	root.PersistentFlags().BoolVar(&jsonFlag, "json", false, "output in JSON format")
	root.PersistentFlags().StringVar(&accountFlag, "account", "", "account ID to use (defaults to config default or first account)")
	root.AddCommand(newAccountCmd())
	root.AddCommand(newTagsCmd())
	root.AddCommand(newMessagesCmd())
	root.AddCommand(newImportCmd())
	root.AddCommand(newRenderCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newPreviewCmd())
	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// openDB creates the data directory and opens the SQLite database.
func openDB() (*sqlite.DB, error) {
	dataDir := config.DataDir()
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "tagside.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// loadConfig loads the application configuration from the config file.
func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		path = filepath.Join(config.ConfigDir(), "config.toml")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// resolveAccountID determines which account to use: the --account flag, the
// config default, or the first account in the database.
func resolveAccountID(ctx context.Context, db *sqlite.DB, cfg *config.Config) (string, error) {
	if accountFlag != "" {
		return accountFlag, nil
	}
	if cfg.Accounts.Default != "" {
		return cfg.Accounts.Default, nil
	}

	accounts, err := db.ListAccounts(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list accounts: %w", err)
	}
	if len(accounts) == 0 {
		return "", fmt.Errorf("no accounts configured; run 'tagside account add' first")
	}
	return accounts[0].ID, nil
}

// session bundles what every tag command needs for one account.
type session struct {
	db       *sqlite.DB
	cfg      *config.Config
	tags     *app.TagService
	messages *app.MessageService
}

func openSession(ctx context.Context) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	palette, err := cfg.Palette()
	if err != nil {
		return nil, err
	}
	db, err := openDB()
	if err != nil {
		return nil, err
	}
	accountID, err := resolveAccountID(ctx, db, cfg)
	if err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.GetAccount(ctx, accountID); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load account %s: %w", accountID, err)
	}
	return &session{
		db:       db,
		cfg:      cfg,
		tags:     app.NewTagService(db, accountID, cfg.Density(), palette),
		messages: app.NewMessageService(db, accountID),
	}, nil
}

func (s *session) Close() error {
	return s.db.Close()
}

func (s *session) translator() *i18n.Translator {
	return i18n.New(s.cfg.UI.Language)
}

func (s *session) renderer() (*sidebar.Renderer, error) {
	return sidebar.New(sidebar.Options{
		Translator: s.translator(),
		BasePath:   s.cfg.Web.BasePath,
	})
}
