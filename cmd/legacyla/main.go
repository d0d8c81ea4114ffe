// Command legacyla is the operator CLI: schema migrations, superuser
// bootstrap and readiness checks.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Project-Legacy-LA/legacy-la/internal/config"
	"github.com/Project-Legacy-LA/legacy-la/internal/observability/logger"
	"github.com/Project-Legacy-LA/legacy-la/internal/store/pg"
)

type client struct {
	BaseURL string
	HTTP    *http.Client
}

func (c *client) do(method, path string, body any, headers map[string]string) (int, []byte, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, strings.TrimRight(c.BaseURL, "/")+path, rd)
	if err != nil {
		return 0, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b, nil
}

func main() {
	_ = godotenv.Load()

	var (
		baseURL    = envOr("LEGACYLA_URL", "http://localhost:8080")
		configPath = os.Getenv("CONFIG_PATH")
		timeout    = 30 * time.Second
	)

	root := &cobra.Command{
		Use:           "legacyla",
		Short:         "CLI operativo de Legacy LA",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&baseURL, "url", baseURL, "URL base del servicio (env LEGACYLA_URL)")
	root.PersistentFlags().StringVar(&configPath, "config", configPath, "ruta a config.yaml (env CONFIG_PATH)")

	cl := &client{HTTP: &http.Client{Timeout: timeout}}
	root.PersistentPreRun = func(*cobra.Command, []string) { cl.BaseURL = baseURL }

	// migrate up
	migrateCmd := &cobra.Command{Use: "migrate", Short: "Migraciones SQL embebidas"}
	migrateUpCmd := &cobra.Command{
		Use:   "up",
		Short: "Aplica las migraciones pendientes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cfg.Storage.DSN == "" {
				return fmt.Errorf("storage.dsn (o DATABASE_URL) es requerido")
			}
			logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
			ctx := logger.ToContext(cmd.Context(), logger.L())

			st, err := pg.New(ctx, pg.Config{DSN: cfg.Storage.DSN, MaxConns: 2})
			if err != nil {
				return err
			}
			defer st.Close()
			n, err := st.Migrate(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("applied=%d\n", n)
			return nil
		},
	}
	migrateCmd.AddCommand(migrateUpCmd)

	// superuser create
	var suEmail, suPassword, suSecret string
	superuserCmd := &cobra.Command{Use: "superuser", Short: "Bootstrap de superusuarios"}
	superuserCreateCmd := &cobra.Command{
		Use:   "create",
		Short: "Crea un superusuario vía POST /api/v1/users/superuser",
		RunE: func(*cobra.Command, []string) error {
			if suEmail == "" || suPassword == "" {
				return fmt.Errorf("--email y --password son requeridos")
			}
			if suSecret == "" {
				return fmt.Errorf("falta el secret (flag --admin-secret o env ADMIN_SECRET)")
			}
			status, body, err := cl.do(http.MethodPost, "/api/v1/users/superuser",
				map[string]string{"email": suEmail, "password": suPassword},
				map[string]string{"X-Admin-Secret": suSecret})
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("superuser create fallo: status=%d body=%s", status, string(body))
			}
			fmt.Println(string(body))
			return nil
		},
	}
	superuserCreateCmd.Flags().StringVar(&suEmail, "email", "", "email del superusuario")
	superuserCreateCmd.Flags().StringVar(&suPassword, "password", "", "password del superusuario")
	superuserCreateCmd.Flags().StringVar(&suSecret, "admin-secret", os.Getenv("ADMIN_SECRET"), "valor de X-Admin-Secret (env ADMIN_SECRET)")
	superuserCmd.AddCommand(superuserCreateCmd)

	// ping
	pingCmd := &cobra.Command{
		Use:   "ping",
		Short: "Chequea GET /readyz",
		RunE: func(*cobra.Command, []string) error {
			status, body, err := cl.do(http.MethodGet, "/readyz", nil, nil)
			if err != nil {
				return err
			}
			if status != http.StatusOK {
				return fmt.Errorf("not ready: status=%d body=%s", status, string(body))
			}
			fmt.Println("ok")
			return nil
		},
	}

	root.AddCommand(migrateCmd, superuserCmd, pingCmd)

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
