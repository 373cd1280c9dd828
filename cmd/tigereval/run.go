package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ughe/tigereval/config"
	"github.com/ughe/tigereval/metrics"
	"github.com/ughe/tigereval/ocr"
)

// newClients builds one OCR client per requested service.
func newClients(c *config.Config, services []string) (map[string]ocr.Client, error) {
	m := make(map[string]ocr.Client, len(services))
	for _, s := range services {
		switch s {
		case "gemini":
			m[s] = ocr.GeminiClient{APIKey: c.Gemini.APIKey, Model: c.Gemini.Model}
		case "aws":
			m[s] = ocr.AWSClient{CredentialsPath: c.Credentials}
		case "azure":
			m[s] = ocr.AzureClient{CredentialsPath: c.Credentials, Endpoint: c.Azure.Endpoint}
		case "gcp":
			m[s] = ocr.GCPClient{CredentialsPath: c.Credentials}
		default:
			return nil, fmt.Errorf("unknown service %q", s)
		}
	}
	return m, nil
}

// runService runs one provider and records its latency or failure.
func runService(image []byte, service string, client ocr.Client, name string) (*ocr.Result, error) {
	start := time.Now()
	result, err := client.Run(image)
	if err != nil {
		metrics.OCRErrors.WithLabelValues(service).Inc()
		return nil, fmt.Errorf("%v:%v:Run:%w", name, service, err)
	}
	metrics.OCRDuration.WithLabelValues(service).Observe(time.Since(start).Seconds())
	result.FileName = name
	return result, nil
}

func writeResult(result *ocr.Result, dst string) error {
	encoded, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("%v:Marshal:%w", filepath.Base(dst), err)
	}
	if err := os.WriteFile(dst, encoded, 0600); err != nil {
		return fmt.Errorf("%v:WriteFile:%w", filepath.Base(dst), err)
	}
	return nil
}

// runOCR runs every service concurrently on one image and writes
// <image>.<service>.json into dir. Provider failures are reported and
// returned together once all providers finish.
func runOCR(filename, dir string, services map[string]ocr.Client) error {
	buf, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	name := filepath.Base(filename)
	namepath := path.Join(dir, name)

	ch := make(chan error, len(services))
	for service, client := range services {
		go func(service string, client ocr.Client) {
			result, err := runService(buf, service, client, name)
			if err == nil {
				dst := namepath + "." + service + ".json"
				err = writeResult(result, dst)
				if err == nil {
					slog.Info("ocr complete", "file", name, "service", service,
						"millis", result.Duration, "segments", len(result.Segments), "output", dst)
				}
			}
			ch <- err
		}(service, client)
	}
	// Wait for each service to finish
	var errs []error
	for i := 0; i < len(services); i++ {
		if err := <-ch; err != nil {
			slog.Error("ocr failed", "file", name, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func buildRunCmd() *cobra.Command {
	var (
		services []string
		outDir   string
	)
	cmd := &cobra.Command{
		Use:   "run [--service name]... image...",
		Short: "Execute OCR on the selected providers",
		Long: `Execute OCR on each image with every selected provider.

Providers: gemini, aws, azure, gcp. Key files are read from the credentials
directory: aws (credentials, config), azure (azure.json), gcp (gcp.json).
Gemini uses gemini.api_key or GEMINI_API_KEY.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(services) == 0 {
				services = cfg.Services
			}
			clients, err := newClients(cfg, services)
			if err != nil {
				return err
			}
			if outDir == "" {
				if outDir, err = os.Getwd(); err != nil {
					return err
				}
			}
			var errs []error
			for _, filename := range args {
				if err := runOCR(filename, outDir, clients); err != nil {
					errs = append(errs, err)
				}
			}
			return errors.Join(errs...)
		},
	}
	cmd.Flags().StringSliceVarP(&services, "service", "s", nil, "OCR providers to run (default from config)")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Directory for result files (default working directory)")
	return cmd
}
