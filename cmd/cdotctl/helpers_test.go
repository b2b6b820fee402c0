package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/cdotctl/internal/config"
	"github.com/alexisbeaulieu97/cdotctl/internal/logger"
	"github.com/alexisbeaulieu97/cdotctl/internal/model"
	"github.com/alexisbeaulieu97/cdotctl/internal/plugin"
	"github.com/alexisbeaulieu97/cdotctl/internal/zapi"
	"github.com/alexisbeaulieu97/cdotctl/internal/zapi/zapifake"
)

type testApp struct {
	*AppContext
	srv         *zapifake.Server
	connections []config.Connection
	vservers    []string
}

func newTestApp(t *testing.T, env map[string]string) *testApp {
	t.Helper()

	registry := plugin.NewRegistry()
	require.NoError(t, registerPlugins(registry))

	app := &testApp{srv: zapifake.New("svm1")}
	app.AppContext = &AppContext{
		Registry: registry,
		NewClient: func(conn config.Connection, vserver string, _ *logger.Logger) (zapi.Client, error) {
			app.connections = append(app.connections, conn)
			app.vservers = append(app.vservers, vserver)
			return app.srv, nil
		},
		Lookup: func(key string) (string, bool) {
			v, ok := env[key]
			return v, ok
		},
	}
	return app
}

func executeCommand(app *AppContext, args ...string) (string, string, error) {
	root := newRootCmd(app)
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func decodeOutcome(t *testing.T, stdout string) model.Outcome {
	t.Helper()

	var outcome model.Outcome
	require.NoError(t, json.Unmarshal([]byte(stdout), &outcome), stdout)
	return outcome
}

var connectionArgs = []string{"--hostname", "cluster1", "--username", "admin", "--password", "secret"}

func withConnection(args ...string) []string {
	return append(append([]string{}, args...), connectionArgs...)
}
