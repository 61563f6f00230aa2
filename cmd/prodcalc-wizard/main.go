// Command prodcalc-wizard drives a calculator session from the terminal,
// talking to a running prodcalc-server for uploads and cart submission.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/telexlabs/go-prodcalc/pkg/calculator"
	"github.com/telexlabs/go-prodcalc/pkg/gateway"
	"github.com/telexlabs/go-prodcalc/pkg/model"
)

func main() {
	configPath := flag.String("config", "", "calculator configuration file (.json, .yaml)")
	serverURL := flag.String("server", "http://localhost:8080", "prodcalc server base URL")
	flag.Parse()

	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "usage: prodcalc-wizard -config calculator.yaml [-server http://localhost:8080]")
		os.Exit(2)
	}

	cfg, err := model.LoadFile(*configPath)
	if err != nil {
		log.Fatalf("failed to load calculator config: %v", err)
	}

	uploadClient, err := gateway.NewHTTPUploadClient(*serverURL + "/api/uploads")
	if err != nil {
		log.Fatalf("failed to build upload client: %v", err)
	}
	cartClient, err := gateway.NewHTTPCartClient(*serverURL + "/api/cart")
	if err != nil {
		log.Fatalf("failed to build cart client: %v", err)
	}

	calc, err := calculator.New(cfg, uploadClient, cartClient, calculator.WithLogger(log.Default()))
	if err != nil {
		log.Fatalf("failed to start calculator session: %v", err)
	}

	session := &session{calc: calc, driver: &surveyDriver{}}
	if err := session.run(context.Background()); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			fmt.Fprintln(os.Stderr, "aborted")
			os.Exit(1)
		}
		log.Fatalf("session failed: %v", err)
	}
}
