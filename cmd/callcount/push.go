package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/gojek/heimdall/v7"
	"github.com/gojek/heimdall/v7/httpclient"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/getsentry/callcount/internal/envutil"
)

func newPushCmd(opts *options) *cobra.Command {
	var (
		url     string
		retries int
	)
	cmd := &cobra.Command{
		Use:   "push [event files...]",
		Short: "Send event streams to a running callcountd",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newPushClient(retries)
			if len(args) == 0 {
				return push(client, url, cmd.InOrStdin(), "stdin")
			}
			for _, path := range args {
				f, err := os.Open(path)
				if err != nil {
					return err
				}
				err = push(client, url, f, path)
				f.Close()
				if err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", envutil.ServiceURL(), "base URL of the callcountd service")
	cmd.Flags().IntVar(&retries, "retries", 3, "number of retries on failure")
	return cmd
}

func newPushClient(retries int) *httpclient.Client {
	backoff := heimdall.NewConstantBackoff(100*time.Millisecond, 50*time.Millisecond)
	return httpclient.NewClient(
		httpclient.WithHTTPTimeout(30*time.Second),
		httpclient.WithRetryCount(retries),
		httpclient.WithRetrier(heimdall.NewRetrier(backoff)),
	)
}

func push(client *httpclient.Client, baseURL string, r io.Reader, source string) error {
	body, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	headers := http.Header{}
	headers.Set("Content-Type", "application/x-ndjson")
	res, err := client.Post(baseURL+"/calls", bytes.NewReader(body), headers)
	if err != nil {
		return fmt.Errorf("%s: %w", source, err)
	}
	defer res.Body.Close()
	msg, _ := io.ReadAll(res.Body)
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: service answered %d: %s", source, res.StatusCode, bytes.TrimSpace(msg))
	}
	log.Info().Str("source", source).Str("response", string(bytes.TrimSpace(msg))).Msg("pushed events")
	return nil
}
