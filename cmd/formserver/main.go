package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/G-Node/stepform/stepform"
	"github.com/G-Node/stepform/stepform/form"
	"github.com/G-Node/stepform/stepform/worker"
	"github.com/jessevdk/go-flags"
	"gopkg.in/yaml.v3"
)

// Options is the root command that groups the sub-commands.
type Options struct {
	Config  string     `short:"f" long:"config" description:"service config YAML/JSON path"`
	Serve   ServeCmd   `command:"serve" description:"Start the form service"`
	Lint    LintCmd    `command:"lint" description:"Check form documents for authoring defects"`
	Migrate MigrateCmd `command:"migrate" description:"Convert form documents to the multi-step format"`
}

var opts Options

// ServeCmd runs the service until interrupted.
type ServeCmd struct {
	Webhook string `long:"webhook" description:"URL receiving submitted values as JSON (values are logged if unset)"`
}

func (cmd *ServeCmd) Execute(args []string) error {
	config, err := stepform.LoadConfig(opts.Config)
	if err != nil {
		return err
	}
	store, err := stepform.NewStore(config.Backend)
	if err != nil {
		return err
	}
	action := logAction
	if cmd.Webhook != "" {
		action = webhookAction(cmd.Webhook)
	}
	srv, err := stepform.NewService(store, action, *config)
	if err != nil {
		return err
	}
	if err := srv.Start(); err != nil {
		return err
	}
	defer srv.Stop()
	srv.WaitForInterrupt()
	return nil
}

// logAction logs the names of the submitted values.
func logAction(tenant, formType string, values map[string]string) ([]string, error) {
	names := make([]string, 0, len(values))
	for k := range values {
		names = append(names, k)
	}
	sort.Strings(names)
	msg := fmt.Sprintf("Received %s form of %s with %s", formType, tenant, strings.Join(names, ", "))
	log.Print(msg)
	return []string{msg}, nil
}

// webhookAction posts the submitted values to url.
func webhookAction(url string) worker.DeliverAction {
	client := &http.Client{Timeout: 30 * time.Second}
	return func(tenant, formType string, values map[string]string) ([]string, error) {
		payload, err := json.Marshal(map[string]interface{}{
			"tenant":   tenant,
			"formType": formType,
			"values":   values,
		})
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		io.Copy(io.Discard, resp.Body)
		msg := fmt.Sprintf("Webhook returned %s", resp.Status)
		if resp.StatusCode >= 300 {
			return []string{msg}, fmt.Errorf("webhook failed: %s", resp.Status)
		}
		return []string{msg}, nil
	}
}

// readDocument reads a form document from a JSON or YAML file.
func readDocument(path string) (form.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return form.Config{}, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc interface{}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return form.Config{}, fmt.Errorf("%s: %w", path, err)
		}
		if data, err = json.Marshal(doc); err != nil {
			return form.Config{}, fmt.Errorf("%s: %w", path, err)
		}
	}
	cfg, err := form.Decode(data)
	if err != nil {
		return form.Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LintCmd prints the lint issues of form documents.
type LintCmd struct {
	Args struct {
		Files []string `positional-arg-name:"file" required:"1"`
	} `positional-args:"yes"`
}

func (cmd *LintCmd) Execute(args []string) error {
	failed := 0
	for _, path := range cmd.Args.Files {
		cfg, err := readDocument(path)
		if err != nil {
			return err
		}
		issues := form.Lint(cfg)
		for _, issue := range issues {
			fmt.Printf("%s: %s\n", path, issue)
		}
		if issues.Err() != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d documents have errors", failed, len(cmd.Args.Files))
	}
	return nil
}

// MigrateCmd rewrites form documents in the multi-step format.
type MigrateCmd struct {
	Output string `short:"o" long:"output" description:"output file (stdout if unset)"`
	Args   struct {
		File string `positional-arg-name:"file" required:"yes"`
	} `positional-args:"yes"`
}

func (cmd *MigrateCmd) Execute(args []string) error {
	cfg, err := readDocument(cmd.Args.File)
	if err != nil {
		return err
	}
	data, err := form.Encode(cfg)
	if err != nil {
		return err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, data, "", "  "); err != nil {
		return err
	}
	out.WriteByte('\n')
	if cmd.Output == "" {
		_, err = os.Stdout.Write(out.Bytes())
		return err
	}
	return os.WriteFile(cmd.Output, out.Bytes(), 0644)
}

func main() {
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
}
