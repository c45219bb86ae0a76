// scripts/tenant-auth/main.go
//
// Authorizes the bot against one tenant's SaaS account without going through
// the public /oauth/callback route, then stores the credential.
//
// Usage:
//   go run scripts/tenant-auth/main.go <tenant-id>
//
// Open the printed URL, approve access, and paste the "code" query parameter
// of the redirect back here.

package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"saas-action-bot/config"
	"saas-action-bot/internal/credential"
	credentialPostgre "saas-action-bot/internal/credential/repository/postgre"
	credentialUC "saas-action-bot/internal/credential/usecase"
	"saas-action-bot/pkg/database"
	"saas-action-bot/pkg/log"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run scripts/tenant-auth/main.go <tenant-id>")
		os.Exit(1)
	}
	tenantID := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := log.Init(log.ZapConfig{Level: "info", Mode: "development", ColorEnabled: true})
	ctx := context.Background()

	db, err := database.Open(database.Config{Driver: cfg.Database.Driver, DSN: cfg.Database.DSN})
	if err != nil {
		logger.Fatalf(ctx, "Failed to open database: %v", err)
	}
	defer database.Close(db)
	if err := credentialPostgre.Migrate(db); err != nil {
		logger.Fatalf(ctx, "Failed to migrate credentials: %v", err)
	}

	uc := credentialUC.New(logger, credentialPostgre.New(db), credential.Options{
		ClientID:            cfg.TenantOAuth.ClientID,
		ClientSecret:        cfg.TenantOAuth.ClientSecret,
		RedirectURL:         cfg.TenantOAuth.RedirectURL,
		AccountsURL:         cfg.TenantOAuth.AccountsURL,
		AllowedAccountsURLs: cfg.TenantOAuth.AllowedAccountsURLs,
		AuthPath:            cfg.TenantOAuth.AuthPath,
		TokenPath:           cfg.TenantOAuth.TokenPath,
		DefaultAPIBaseURL:   cfg.TenantOAuth.DefaultAPIBaseURL,
		Scopes:              cfg.TenantOAuth.Scopes,
		StateSecret:         cfg.TenantOAuth.StateSecret,
		StateTTL:            cfg.TenantOAuth.StateTTL,
	}, &http.Client{Timeout: 30 * time.Second}, nil, nil)

	consentURL, err := uc.AuthCodeURL(ctx, tenantID)
	if err != nil {
		logger.Fatalf(ctx, "Failed to build consent URL: %v", err)
	}

	fmt.Println("=================================================================")
	fmt.Println("STEP 1: Open this URL and approve access for the tenant account:")
	fmt.Println()
	fmt.Println(consentURL)
	fmt.Println()
	fmt.Println("=================================================================")
	fmt.Print("STEP 2: Paste the authorization code and press Enter: ")

	code, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		logger.Fatalf(ctx, "Failed to read authorization code: %v", err)
	}

	cred, err := uc.Authorize(ctx, credential.AuthorizeInput{TenantID: tenantID, Code: strings.TrimSpace(code)})
	if err != nil {
		logger.Fatalf(ctx, "Failed to exchange authorization code: %v", err)
	}

	fmt.Println()
	fmt.Printf("Credential stored for tenant %s (API %s, expires %s)\n",
		cred.TenantID, cred.APIBaseURL, cred.Expiry.Format(time.RFC3339))
}
