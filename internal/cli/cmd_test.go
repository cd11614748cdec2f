package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/debot/internal/conversation"
	"github.com/alexanderramin/debot/internal/domain"
	"github.com/alexanderramin/debot/internal/recommend"
	"github.com/alexanderramin/debot/internal/repository"
	"github.com/alexanderramin/debot/internal/testutil"
)

type cliFixture struct {
	app        *App
	classifier *testutil.FakeClassifier
	generator  *testutil.FakeGenerator
	embedder   *testutil.BagEmbedder
	catalog    repository.CatalogRepo
}

// testApp wires a full App over an in-memory DB holding the test catalog.
func testApp(t *testing.T) *cliFixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	catalog := repository.NewSQLiteCatalogRepo(db, testutil.NewTestUoW(db))
	require.NoError(t, catalog.ReplaceCatalog(context.Background(), testutil.CircuitsCatalog()))

	f := &cliFixture{
		classifier: &testutil.FakeClassifier{},
		generator:  &testutil.FakeGenerator{Reply: "Olá! Qual é a sua dúvida?"},
		embedder:   testutil.NewBagEmbedder(),
		catalog:    catalog,
	}
	links := recommend.DefaultLinkBuilder()
	engine := recommend.NewEngine(catalog, recommend.NewRanker(catalog, f.embedder, 2), links, recommend.DefaultGate())
	ctrl := conversation.NewController(conversation.ControllerDeps{
		Store:      conversation.NewMemoryStore(time.Hour),
		Classifier: f.classifier,
		Generator:  f.generator,
		Engine:     engine,
	})

	f.app = &App{
		Conversations:     ctrl,
		Engine:            engine,
		Catalog:           catalog,
		Links:             links,
		IsInteractive:     func() bool { return false },
		NewConversationID: func() string { return "test-conversation" },
	}
	return f
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

// --- ask ---

func TestAskCmd_Recommends(t *testing.T) {
	f := testApp(t)
	f.classifier.Doubt = domain.TextDoubt("análise nodal")

	out, err := executeCmd(t, f.app, "", "ask", "Não", "entendo", "análise", "nodal")
	require.NoError(t, err)

	assert.Contains(t, out, recommend.ProgressText)
	assert.Contains(t, out, recommend.AnnouncementText)
	assert.Contains(t, out, "Recomendo a seguinte aula: Análise nodal")
	assert.Contains(t, out, "lessons/analise-nodal/")
	assert.Equal(t, []string{"Não entendo análise nodal"}, f.classifier.Inputs)
	assert.Less(t, strings.Index(out, recommend.ProgressText), strings.Index(out, recommend.AnnouncementText))
}

func TestAskCmd_FreeChat(t *testing.T) {
	f := testApp(t)
	f.classifier.Doubt = domain.NoDoubt()

	out, err := executeCmd(t, f.app, "", "ask", "oi")
	require.NoError(t, err)
	assert.Contains(t, out, "Olá! Qual é a sua dúvida?")
	assert.NotContains(t, out, recommend.ProgressText)
}

func TestAskCmd_SharesDefaultConversation(t *testing.T) {
	f := testApp(t)
	f.classifier.Doubt = domain.NoDoubt()

	_, err := executeCmd(t, f.app, "", "ask", "oi")
	require.NoError(t, err)
	_, err = executeCmd(t, f.app, "", "ask", "tudo bem?")
	require.NoError(t, err)

	window := f.generator.LastWindow()
	var users []string
	for _, m := range window {
		if m.Role == domain.RoleUser {
			users = append(users, m.Content)
		}
	}
	assert.Equal(t, []string{"oi", "tudo bem?"}, users)
}

func TestAskCmd_ClassifierFailureApologizes(t *testing.T) {
	f := testApp(t)
	f.classifier.Err = testutil.ErrFake

	out, err := executeCmd(t, f.app, "", "ask", "oi")
	require.NoError(t, err)
	assert.Contains(t, out, conversation.ClassifierApology)
}

func TestAskCmd_RequiresMessage(t *testing.T) {
	f := testApp(t)
	_, err := executeCmd(t, f.app, "", "ask")
	assert.Error(t, err)

	_, err = executeCmd(t, f.app, "", "ask", "   ")
	assert.Error(t, err)
}

// --- history ---

func TestHistoryCmd_ShowsAndResets(t *testing.T) {
	f := testApp(t)
	f.classifier.Doubt = domain.NoDoubt()

	_, err := executeCmd(t, f.app, "", "ask", "-c", "h1", "bom dia")
	require.NoError(t, err)

	out, err := executeCmd(t, f.app, "", "history", "-c", "h1")
	require.NoError(t, err)
	assert.Contains(t, out, "[system]")
	assert.Contains(t, out, "bom dia")
	assert.Contains(t, out, "Olá! Qual é a sua dúvida?")

	out, err = executeCmd(t, f.app, "", "history", "-c", "h1", "--reset")
	require.NoError(t, err)
	assert.Contains(t, out, "Conversation h1 reset.")

	out, err = executeCmd(t, f.app, "", "history", "-c", "h1")
	require.NoError(t, err)
	assert.NotContains(t, out, "bom dia")
}

// --- chat (line mode) ---

func TestChatCmd_LineMode(t *testing.T) {
	f := testApp(t)
	f.classifier.Doubt = domain.NoDoubt()

	out, err := executeCmd(t, f.app, "oi\n\nquero ajuda\n/quit\nnunca lido\n", "chat")
	require.NoError(t, err)

	assert.Contains(t, out, "test-conversation")
	assert.Equal(t, 2, f.generator.Calls())
	assert.Equal(t, []string{"oi", "quero ajuda"}, f.classifier.Inputs)
}

func TestChatCmd_LineModeReset(t *testing.T) {
	f := testApp(t)
	f.classifier.Doubt = domain.NoDoubt()

	out, err := executeCmd(t, f.app, "oi\n/reset\nde novo\n", "chat", "-c", "r1")
	require.NoError(t, err)
	assert.Contains(t, out, "Conversa reiniciada.")

	// The second message starts from a fresh window: persona, user, note.
	window := f.generator.LastWindow()
	require.NotEmpty(t, window)
	assert.Equal(t, domain.RoleSystem, window[0].Role)
	assert.Equal(t, domain.UserMessage("de novo"), window[1])
}

func TestChatCmd_PlainFlagSkipsTUI(t *testing.T) {
	f := testApp(t)
	f.app.IsInteractive = func() bool { return true }
	f.classifier.Doubt = domain.NoDoubt()

	_, err := executeCmd(t, f.app, "oi\n", "chat", "--plain")
	require.NoError(t, err)
	assert.Equal(t, 1, f.generator.Calls())
}

// --- recommend ---

func TestRecommendCmd_ShowsPipeline(t *testing.T) {
	f := testApp(t)

	out, err := executeCmd(t, f.app, "", "recommend", "Análise", "NODAL")
	require.NoError(t, err)

	assert.Contains(t, out, "Module 3")
	assert.Contains(t, out, "pass")
	assert.Contains(t, out, "Recomendo a seguinte aula: Análise nodal")
	assert.Contains(t, out, "distance")
	assert.Empty(t, f.classifier.Inputs)
}

func TestRecommendCmd_NoMatch(t *testing.T) {
	f := testApp(t)

	out, err := executeCmd(t, f.app, "", "recommend", "fasor")
	require.NoError(t, err)
	assert.Contains(t, out, "No module matched")
	assert.Empty(t, f.embedder.Calls())
}

func TestRecommendCmd_GateAndForce(t *testing.T) {
	f := testApp(t)

	// "circuito" hits all four modules once: too broad.
	out, err := executeCmd(t, f.app, "", "recommend", "circuito")
	require.NoError(t, err)
	assert.Contains(t, out, "fail")
	assert.Contains(t, out, "--force")
	assert.Empty(t, f.embedder.Calls())

	out, err = executeCmd(t, f.app, "", "recommend", "--force", "circuito")
	require.NoError(t, err)
	assert.Contains(t, out, "Recomendo a seguinte aula")
	assert.NotEmpty(t, f.embedder.Calls())
}

func TestRecommendCmd_EmbedderFailureListed(t *testing.T) {
	f := testApp(t)
	f.embedder.FailOn["*"] = true
	f.embedder.Err = errors.New("embedder down")

	out, err := executeCmd(t, f.app, "", "recommend", "análise", "nodal")
	require.NoError(t, err)
	assert.Contains(t, out, "module 2: ")
	assert.Contains(t, out, "embedder down")
	assert.NotContains(t, out, "Recomendo")
}

// --- catalog ---

func writeCatalogFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	write("modulo_01.json", `{"aulas":[{"lesson":"Lei de Ohm","duration":"12:00"}]}`)
	write("DE_Labs.json", `{"aulas":[{"lesson":"Protoboard","duration":"05:00"},{"lesson":"Multímetro","duration":"07:30"}]}`)
	write("keywords.json", `{"modulo_01":["Ohm","resistência"],"DE_labs":["protoboard"]}`)
	return dir
}

func TestCatalogImportAndShow(t *testing.T) {
	f := testApp(t)
	f.app.ModuleNames = []string{"1: Conceitos Básicos", "Domínio Elétrico Labs"}
	dir := writeCatalogFixture(t)

	out, err := executeCmd(t, f.app, "", "catalog", "import", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 modules, 3 lessons, 3 keywords.")

	out, err = executeCmd(t, f.app, "", "catalog", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "1: Conceitos Básicos")
	assert.Contains(t, out, "Domínio Elétrico Labs")
	assert.NotContains(t, out, "Module 3")

	out, err = executeCmd(t, f.app, "", "catalog", "show", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Multímetro")
	assert.Contains(t, out, "protoboard")
	assert.Contains(t, out, "dominio-eletrico-labs/lessons/multimetro/")
}

func TestCatalogShow_Errors(t *testing.T) {
	f := testApp(t)

	_, err := executeCmd(t, f.app, "", "catalog", "show", "abc")
	assert.Error(t, err)

	_, err = executeCmd(t, f.app, "", "catalog", "show", "42")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCatalogImport_InvalidDirKeepsCatalog(t *testing.T) {
	f := testApp(t)

	_, err := executeCmd(t, f.app, "", "catalog", "import", t.TempDir())
	require.Error(t, err)

	modules, err := f.catalog.ListModules(context.Background())
	require.NoError(t, err)
	assert.Len(t, modules, 4)
}

// --- serve ---

func TestServeCmd_UsesDefaultAddr(t *testing.T) {
	f := testApp(t)
	f.app.DefaultAddr = ":9999"
	var got string
	f.app.Serve = func(_ context.Context, addr string) error {
		got = addr
		return nil
	}

	out, err := executeCmd(t, f.app, "", "serve")
	require.NoError(t, err)
	assert.Equal(t, ":9999", got)
	assert.Contains(t, out, "Listening on :9999")

	_, err = executeCmd(t, f.app, "", "serve", "--addr", "127.0.0.1:7000")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7000", got)
}

func TestServeCmd_NotConfigured(t *testing.T) {
	f := testApp(t)
	_, err := executeCmd(t, f.app, "", "serve")
	assert.Error(t, err)
}

func TestHelp_MentionsProcessLocalStore(t *testing.T) {
	f := testApp(t)
	for _, name := range []string{"ask", "history"} {
		out, err := executeCmd(t, f.app, "", name, "--help")
		require.NoError(t, err)
		assert.Contains(t, out, "DEBOT_REDIS_URL", name)
	}
}
