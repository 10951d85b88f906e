// in case you need to create an entrypoint with multiple subprograms
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"github.com/pangkywara/tesseractgui/src/pkg/config"
	"github.com/pangkywara/tesseractgui/src/pkg/email"
	"github.com/pangkywara/tesseractgui/src/pkg/ocr"
	"github.com/pangkywara/tesseractgui/src/pkg/util"
)

/*
sendRun emails the recognized text of a stored run, with the conditioned
image attached so the recipient can judge what the engine actually saw.
*/
func sendRun(subprogram string, flags []string) {
	config.CheckIfEnvVarsPresent(
		"AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY", "AWS_REGION", // amazon ses
		"MAILGUN_DOMAIN", "MAILGUN_API_KEY", // mailgun
		"SENDGRID_API_KEY", // sendgrid
	)

	// common flags
	subprogramCmd := flag.NewFlagSet(subprogram, flag.ExitOnError)
	configPath := subprogramCmd.String("config", "./cfg/config.json", "Path to your configuration file.")

	// custom flags
	runDirPath := subprogramCmd.String("run", "", "Run directory to send, as printed by the history listing")
	provider := subprogramCmd.String("provider", "", "Provider to use when sending emails. Default comes from config")
	senderAddress := subprogramCmd.String("sender", "", "Sender's address. Default comes from config")
	recipientAddress := subprogramCmd.String("recipient", "", "Recipient's address. Separate multiple with commas")
	subject := subprogramCmd.String("subject", "", "Subject of an email. Default mentions the run directory")

	// parse and init config
	xerr.QuitIfError(subprogramCmd.Parse(flags), "Unable to subprogramCmd.Parse")
	config.InitializeConfig(*configPath)

	if *provider == "" {
		*provider = config.Cfg.Email.Provider
	}
	if *senderAddress == "" {
		*senderAddress = config.Cfg.Email.SenderAddress
	}

	util.RequiredFlag(runDirPath, "run")
	util.RequiredFlag(senderAddress, "sender")
	util.RequiredFlag(recipientAddress, "recipient")
	util.RequiredFlag(provider, "provider")
	util.EnsureFlags()

	recipientAddresses := strings.Split(*recipientAddress, ",")

	// read recognized text
	textFilePath := filepath.Join(*runDirPath, ocr.TextFileName)
	textFileContentBytes, err := os.ReadFile(textFilePath)
	xerr.QuitIfError(err, fmt.Sprintf("Unable to read file '%s'", textFilePath))
	tl.Log(tl.Verbose, palette.BlueDim, "Recognized text:\n```\n%s\n```", textFileContentBytes)

	// attach the conditioned image when the run kept one
	attachmentPaths := make([]string, 0, 1)
	conditionedPath := filepath.Join(*runDirPath, ocr.ConditionedImageFileName)
	if _, statErr := os.Stat(conditionedPath); statErr == nil {
		attachmentPaths = append(attachmentPaths, conditionedPath)
	} else {
		tl.Log(tl.Warning, palette.YellowDim, "Run '%s' has no '%s', sending text only", *runDirPath, ocr.ConditionedImageFileName)
	}

	emailSubject := *subject
	if emailSubject == "" {
		emailSubject = fmt.Sprintf("Recognition results: %s", filepath.Base(*runDirPath))
	}

	// send email here
	sendEmails := true
	e := email.SendMessage(email.Provider(*provider), &sendEmails, *senderAddress, recipientAddresses, emailSubject, string(textFileContentBytes), "", attachmentPaths)
	e.QuitIf("error")
}

/*
Pick provider and use it to send a test email to the specified address, to
verify credentials before wiring the provider into real runs.
*/
func testProvider(subprogram string, flags []string) {
	config.CheckIfEnvVarsPresent(
		"AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY", "AWS_REGION", // amazon ses
		"MAILGUN_DOMAIN", "MAILGUN_API_KEY", // mailgun
		"SENDGRID_API_KEY", // sendgrid
	)

	// common flags
	subprogramCmd := flag.NewFlagSet(subprogram, flag.ExitOnError)
	configPath := subprogramCmd.String("config", "./cfg/config.json", "Path to your configuration file.")

	// custom flags
	provider := subprogramCmd.String("provider", "mailgun", "Provider to use when sending emails")
	senderAddress := subprogramCmd.String("sender", "", "Sender's address")
	recipientAddress := subprogramCmd.String("recipient", "", "Recipient's address")
	subject := subprogramCmd.String("subject", "Test subject", "Subject of an email")

	// parse and init config
	xerr.QuitIfError(subprogramCmd.Parse(flags), "Unable to subprogramCmd.Parse")
	config.InitializeConfig(*configPath)

	util.RequiredFlag(senderAddress, "sender")
	util.RequiredFlag(recipientAddress, "recipient")
	util.RequiredFlag(provider, "provider")
	util.EnsureFlags()

	recipientAddresses := strings.Split(*recipientAddress, ",")

	// send email here
	sendEmails := true
	e := email.SendMessage(email.Provider(*provider), &sendEmails, *senderAddress, recipientAddresses, *subject, "Test email body", "", nil)
	e.QuitIf("error")
}

func main() {
	// Check if there are enough arguments
	if len(os.Args) < 2 {
		tl.Log(tl.Error, palette.Red, "Usage: %s", "go run src/cmd/send-email/main.go subprogram_name(for example send-run)")
		os.Exit(1)
	}
	subprogram := os.Args[1]
	flags := os.Args[2:]

	// Switch subprogram based on the first argument
	switch subprogram {
	case "send-run":
		sendRun(subprogram, flags)
	case "test-provider":
		testProvider(subprogram, flags)
	default:
		tl.Log(tl.Error, palette.Red, "Unknown subprogram: %s", subprogram)
		os.Exit(1)
	}
}
