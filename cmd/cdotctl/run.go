package main

import (
	"errors"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/cdotctl/internal/config"
	"github.com/alexisbeaulieu97/cdotctl/internal/logger"
	"github.com/alexisbeaulieu97/cdotctl/internal/model"
	"github.com/alexisbeaulieu97/cdotctl/internal/plugin"
)

// runDocument reconciles the document's resource and writes the outcome to
// stdout. Any failure is reported in the outcome and returned, so the
// process exits non-zero.
func runDocument(cmd *cobra.Command, flags *rootFlags, app *AppContext, doc *config.Document) error {
	if err := validateOutputFormat(flags.output); err != nil {
		return err
	}
	runID := uuid.NewString()

	log, err := newLogger(cmd, flags)
	if err != nil {
		return err
	}
	log = log.ForRun(runID)

	outcome, err := reconcileDocument(cmd, flags, app, doc, log)
	if outcome == nil {
		outcome = failedOutcome(doc.Resource, flags.dryRun, err)
	}
	outcome.RunID = runID

	if renderErr := renderOutcome(cmd, flags.output, outcome); renderErr != nil {
		return errors.Join(err, renderErr)
	}
	return err
}

func reconcileDocument(cmd *cobra.Command, flags *rootFlags, app *AppContext, doc *config.Document, log *logger.Logger) (*model.Outcome, error) {
	if err := doc.Resolve(app.Lookup); err != nil {
		log.Error(err, "invalid configuration")
		return nil, err
	}

	client, err := app.NewClient(doc.Connection, doc.Resource.Vserver, log)
	if err != nil {
		log.Error(err, "connect failed")
		return nil, err
	}

	return app.Registry.Reconcile(cmd.Context(), client, doc.Resource, plugin.RunOptions{
		DryRun: flags.dryRun,
		Logger: log,
	})
}

func failedOutcome(res config.Resource, dryRun bool, err error) *model.Outcome {
	return &model.Outcome{
		DryRun:   dryRun,
		Kind:     res.Kind,
		Resource: res.Name,
		Vserver:  res.Vserver,
		Actions:  []string{},
		Failure:  model.NewFailure(err),
	}
}

func newLogger(cmd *cobra.Command, flags *rootFlags) (*logger.Logger, error) {
	level := "info"
	if flags.verbose {
		level = "debug"
	}
	stderr := cmd.ErrOrStderr()
	return logger.New(logger.Options{
		Level:         level,
		HumanReadable: isTerminal(stderr),
		Writer:        stderr,
	})
}
