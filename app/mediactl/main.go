package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/rxlens/catalog/config"
	"github.com/rxlens/catalog/internal/models"
	"github.com/rxlens/catalog/internal/services"
	"github.com/rxlens/catalog/internal/storage"
)

func main() {
	_ = godotenv.Load()

	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "mediactl",
		Short: "Operator tool for catalog media uploads",
		Long: `mediactl computes Cloudinary upload signatures and pushes local images.

  sign    prints an upload authorization computed from CLOUDINARY_* env vars
  upload  asks the catalog server for an authorization, then uploads a file`,
		SilenceUsage: true,
	}
	root.AddCommand(signCmd())
	root.AddCommand(uploadCmd())
	return root
}

// signCmd creates the sign subcommand
func signCmd() *cobra.Command {
	var (
		folder    string
		timestamp int64
	)

	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Print a signed upload authorization",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSign(cmd.Context(), cmd.OutOrStdout(), config.LoadCloudinary(), folder, timestamp)
		},
	}
	cmd.Flags().StringVarP(&folder, "folder", "f", "", "Target folder (default \"products\")")
	cmd.Flags().Int64VarP(&timestamp, "timestamp", "t", 0, "Unix timestamp to sign (default now)")
	return cmd
}

// uploadCmd creates the upload subcommand
func uploadCmd() *cobra.Command {
	var (
		endpoint string
		file     string
		folder   string
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload a local image using a server-issued authorization",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			client := &http.Client{Timeout: timeout}
			return runUpload(ctx, cmd.OutOrStdout(), client, endpoint, storage.DefaultCloudinaryAPI, file, folder)
		},
	}
	cmd.Flags().StringVarP(&endpoint, "endpoint", "e", "", "Signature endpoint URL (required)")
	cmd.Flags().StringVar(&file, "file", "", "Path of the image to upload (required)")
	cmd.Flags().StringVarP(&folder, "folder", "f", "", "Target folder")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "Overall request timeout")
	_ = cmd.MarkFlagRequired("endpoint")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runSign(ctx context.Context, w io.Writer, creds config.Cloudinary, folder string, timestamp int64) error {
	now := time.Now
	if timestamp > 0 {
		now = func() time.Time { return time.Unix(timestamp, 0) }
	}
	auth, err := services.NewSignatureService(creds, now).Issue(ctx, folder)
	if err != nil {
		return err
	}
	return writeJSON(w, auth)
}

func runUpload(ctx context.Context, w io.Writer, client *http.Client, endpoint, cloudinaryAPI, file, folder string) error {
	auth, err := fetchAuthorization(ctx, client, endpoint, folder)
	if err != nil {
		return err
	}

	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(file)))
	obj, err := storage.UploadWithAuthorization(ctx, client, cloudinaryAPI, auth, filepath.Base(file), contentType, f)
	if err != nil {
		return err
	}
	return writeJSON(w, obj)
}

func fetchAuthorization(ctx context.Context, client *http.Client, endpoint, folder string) (models.UploadAuthorization, error) {
	var auth models.UploadAuthorization

	body, err := json.Marshal(map[string]string{"folder": folder})
	if err != nil {
		return auth, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return auth, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return auth, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&e)
		if e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		return auth, fmt.Errorf("signature endpoint: status %d: %s", resp.StatusCode, e.Error)
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&auth); err != nil {
		return auth, fmt.Errorf("signature endpoint: decode: %w", err)
	}
	return auth, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
