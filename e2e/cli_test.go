package e2e_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frodon-community/peergames/internal/api"
	"github.com/frodon-community/peergames/internal/factory"
	"github.com/frodon-community/peergames/internal/model"
	"github.com/frodon-community/peergames/internal/transport/inproc"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	projectRoot := findProjectRoot(t)

	binaryPath := filepath.Join(t.TempDir(), "peergames-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/peergames")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer runs two peers on an in-process substrate and serves the
// first peer's view surface over a real HTTP listener
type testServer struct {
	addr     string
	alice    *factory.App
	bob      *factory.App
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	network := inproc.NewNetwork()
	alice, err := factory.New(factory.Config{
		Self:    model.PeerInfo{PeerID: "alice", DisplayName: "Alice"},
		Logger:  logger,
		Network: network,
	})
	require.NoError(t, err)

	bob, err := factory.New(factory.Config{
		Self:    model.PeerInfo{PeerID: "bob", DisplayName: "Bob"},
		Logger:  logger,
		Network: network,
	})
	require.NoError(t, err)

	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:       logger,
		Registry:     alice.Registry,
		PokerService: alice.PokerService,
		StatsService: alice.StatsService,
		Presence:     alice.Presence,
		Hub:          alice.Hub,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: apiRouter,
	}

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		addr:  serverURL,
		alice: alice,
		bob:   bob,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
			_ = bob.Close()
			_ = alice.Close()
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Response types for JSON parsing

type healthResponse struct {
	Status string `json:"status"`
}

type sessionSummaryResponse struct {
	ID          string `json:"id"`
	Game        string `json:"game"`
	Phase       string `json:"phase"`
	Authority   string `json:"authority"`
	IsAuthority bool   `json:"is_authority"`
}

type tictactoeResponse struct {
	ID       string    `json:"id"`
	Opponent string    `json:"opponent"`
	MySymbol string    `json:"my_symbol"`
	Board    [9]string `json:"board"`
	MyTurn   bool      `json:"my_turn"`
	Phase    string    `json:"phase"`
}

type pokerResponse struct {
	ID      string `json:"id"`
	Host    string `json:"host"`
	IsHost  bool   `json:"is_host"`
	Phase   string `json:"phase"`
	Players []struct {
		PeerID string `json:"id"`
		Chips  int64  `json:"chips"`
	} `json:"players"`
	Pot    int64    `json:"pot"`
	MyHand []string `json:"my_hand"`
}

type handStrengthResponse struct {
	Name  string `json:"name"`
	Score int64  `json:"score"`
}

type statsResponse struct {
	Overall struct {
		Wins   int `json:"wins"`
		Losses int `json:"losses"`
		Draws  int `json:"draws"`
		Total  int `json:"total"`
	} `json:"overall"`
}

type presenceResponse []struct {
	PeerID string `json:"peer_id"`
	Online bool   `json:"online"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	var resp healthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_TicTacToeSession(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	ctx := context.Background()
	session, err := ts.alice.TicTacToeService.Challenge(ctx, "bob")
	require.NoError(t, err)
	_, err = ts.alice.TicTacToeService.Play(ctx, session.ID, 4)
	require.NoError(t, err)

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("sessions", "list")
	require.NoError(t, err, "output: %s", output)

	var list []sessionSummaryResponse
	require.NoError(t, json.Unmarshal([]byte(output), &list))
	require.Len(t, list, 1)
	assert.Equal(t, string(session.ID), list[0].ID)
	assert.Equal(t, "tictactoe", list[0].Game)
	assert.True(t, list[0].IsAuthority)

	output, err = cli.run("sessions", "get", string(session.ID))
	require.NoError(t, err, "output: %s", output)

	var state tictactoeResponse
	require.NoError(t, json.Unmarshal([]byte(output), &state))
	assert.Equal(t, "bob", state.Opponent)
	assert.Equal(t, "X", state.MySymbol)
	assert.Equal(t, "X", state.Board[4])
	assert.False(t, state.MyTurn)
}

func TestCLI_PokerTable(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	ctx := context.Background()
	session, err := ts.alice.PokerService.CreateTable(ctx, "bob")
	require.NoError(t, err)
	require.NoError(t, ts.bob.PokerService.Accept(ctx, session.ID))
	require.NoError(t, ts.alice.PokerService.StartHand(ctx, session.ID))

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("sessions", "get", string(session.ID))
	require.NoError(t, err, "output: %s", output)

	var state pokerResponse
	require.NoError(t, json.Unmarshal([]byte(output), &state))
	assert.Equal(t, "alice", state.Host)
	assert.True(t, state.IsHost)
	assert.Equal(t, "preflop", state.Phase)
	assert.Len(t, state.Players, 2)
	assert.Len(t, state.MyHand, 2)

	output, err = cli.run("sessions", "strength", string(session.ID))
	require.NoError(t, err, "output: %s", output)

	var strength handStrengthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &strength))
	assert.NotEmpty(t, strength.Name)
}

func TestCLI_StatsAndPresence(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("stats", "get", "tictactoe")
	require.NoError(t, err, "output: %s", output)

	var stats statsResponse
	require.NoError(t, json.Unmarshal([]byte(output), &stats))
	assert.Zero(t, stats.Overall.Total)

	output, err = cli.run("stats", "reset", "poker")
	require.NoError(t, err, "output: %s", output)

	var msg messageResponse
	require.NoError(t, json.Unmarshal([]byte(output), &msg))
	assert.Contains(t, msg.Message, "reset")

	output, err = cli.run("presence")
	require.NoError(t, err, "output: %s", output)

	var roster presenceResponse
	require.NoError(t, json.Unmarshal([]byte(output), &roster))
	require.Len(t, roster, 1)
	assert.Equal(t, "bob", roster[0].PeerID)
	assert.True(t, roster[0].Online)
}
