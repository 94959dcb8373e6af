package haxor

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/haxor-news/haxor/internal/config"
	"github.com/haxor-news/haxor/internal/logger"
)

// recordingShell returns a Shell whose spawn records commands instead of
// starting processes.
func recordingShell(cfg Config, exitCode int) (*Shell, *[]*command, *bytes.Buffer, *bytes.Buffer) {
	if cfg.BinaryPath == "" {
		cfg.BinaryPath = os.Args[0]
	}
	s := New(cfg)
	var out, errOut bytes.Buffer
	s.out, s.errOut = &out, &errOut
	var ran []*command
	s.spawn = func(c *command) (int, error) {
		ran = append(ran, c)
		return exitCode, nil
	}
	return s, &ran, &out, &errOut
}

func equalArgs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// --- New ---

func TestNew_Defaults(t *testing.T) {
	s := New(Config{BinaryPath: os.Args[0]})
	if s.initErr != nil {
		t.Fatalf("initErr = %v", s.initErr)
	}
	if !filepath.IsAbs(s.binary) {
		t.Errorf("binary = %q, want absolute path", s.binary)
	}
	if s.cfg.Prompt != defaultPrompt {
		t.Errorf("Prompt = %q, want %q", s.cfg.Prompt, defaultPrompt)
	}
	if s.cfg.Pager != config.DefaultPager() {
		t.Errorf("Pager = %q, want %q", s.cfg.Pager, config.DefaultPager())
	}
	if s.cfg.Engine == nil || s.cfg.Log == nil {
		t.Fatal("Engine and Log must be defaulted")
	}
	if s.Fuzzy() {
		t.Error("default engine should start in prefix mode")
	}
	if home, err := os.UserHomeDir(); err == nil {
		want := filepath.Join(home, config.HistoryFileName)
		if s.cfg.HistoryFile != want {
			t.Errorf("HistoryFile = %q, want %q", s.cfg.HistoryFile, want)
		}
	}
}

func TestNew_KeepsExplicitValues(t *testing.T) {
	s := New(Config{BinaryPath: os.Args[0], Prompt: "> ", Pager: "cat", HistoryFile: "/tmp/h", Paginate: true})
	if s.cfg.Prompt != "> " || s.cfg.Pager != "cat" || s.cfg.HistoryFile != "/tmp/h" {
		t.Errorf("explicit values overwritten: %+v", s.cfg)
	}
	if !s.Paginate() {
		t.Error("Paginate() = false, want true")
	}
}

func TestRun_UnresolvableBinary(t *testing.T) {
	for _, path := range []string{"", "haxor-no-such-binary-on-path"} {
		err := New(Config{BinaryPath: path}).Run()
		if err == nil || !strings.Contains(err.Error(), "resolve binary") {
			t.Errorf("Run() with BinaryPath %q = %v, want resolve error", path, err)
		}
	}
}

// --- parseCommand ---

func TestParseCommand(t *testing.T) {
	tests := []struct {
		tokens   []string
		args     []string
		pipes    int
		redirect string
	}{
		{[]string{"hn", "top", "5"}, []string{"top", "5"}, 0, ""},
		{[]string{"top", "5"}, []string{"top", "5"}, 0, ""},
		{[]string{"hn"}, []string{}, 0, ""},
		{[]string{"HN", "VIEW", "1"}, []string{"VIEW", "1"}, 0, ""},
		{[]string{"hn", "top", "|", "grep", "Go"}, []string{"top"}, 1, ""},
		{[]string{"top", "|", "grep", "Go", "|", "wc", "-l"}, []string{"top"}, 2, ""},
		{[]string{"hn", "top", ">", "out.txt"}, []string{"top"}, 0, "out.txt"},
		{[]string{"top", "|", "grep", "Go", ">", "out.txt"}, []string{"top"}, 1, "out.txt"},
	}
	for _, tt := range tests {
		c, err := parseCommand("hn", tt.tokens)
		if err != nil {
			t.Errorf("parseCommand(%v) error: %v", tt.tokens, err)
			continue
		}
		if !equalArgs(c.args, tt.args) {
			t.Errorf("parseCommand(%v).args = %v, want %v", tt.tokens, c.args, tt.args)
		}
		if len(c.pipes) != tt.pipes {
			t.Errorf("parseCommand(%v) pipes = %v, want %d", tt.tokens, c.pipes, tt.pipes)
		}
		if c.redirect != tt.redirect {
			t.Errorf("parseCommand(%v).redirect = %q, want %q", tt.tokens, c.redirect, tt.redirect)
		}
	}
}

func TestParseCommand_LastPipeStage(t *testing.T) {
	c, err := parseCommand("hn", []string{"top", "|", "grep", "Go", ">", "out.txt"})
	if err != nil {
		t.Fatal(err)
	}
	if !equalArgs(c.pipes[0], []string{"grep", "Go"}) {
		t.Errorf("pipe stage = %v, want [grep Go]", c.pipes[0])
	}
}

func TestParseCommand_Errors(t *testing.T) {
	for _, tokens := range [][]string{
		{"top", "|"},
		{"top", "|", "|", "wc"},
		{"top", ">"},
		{"top", ">", "a", "b"},
	} {
		if _, err := parseCommand("hn", tokens); err == nil {
			t.Errorf("parseCommand(%v) succeeded, want error", tokens)
		}
	}
}

// --- wantsPager ---

func TestWantsPager(t *testing.T) {
	tests := []struct {
		args []string
		want bool
	}{
		{[]string{"top"}, false},
		{[]string{"view", "1"}, false},
		{[]string{"view", "1", "-c"}, true},
		{[]string{"view", "1", "--comments"}, true},
		{[]string{"view", "1", "-cq", "Go"}, true},
		{[]string{"view", "1", "--comments_regex_query=Go"}, true},
		{[]string{"view", "1", "-cr"}, true},
		{[]string{"view", "1", "-cu"}, true},
		{[]string{"view", "1", "-ch"}, true},
		{[]string{"view", "1", "-cc"}, false},
		{[]string{"hiring"}, true},
		{[]string{"freelance", "(?i)go"}, true},
		{[]string{"view", "1", "-c", "-b"}, false},
		{[]string{"view", "1", "--browser", "-c"}, false},
	}
	for _, tt := range tests {
		if got := wantsPager(tt.args); got != tt.want {
			t.Errorf("wantsPager(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}
}

// --- execute ---

func TestExecute_DispatchesWithoutRoot(t *testing.T) {
	s, ran, _, _ := recordingShell(Config{Paginate: true}, 0)
	s.execute(`hn view 3 -cq "(?i)go lang"`)
	if len(*ran) != 1 {
		t.Fatalf("spawned %d commands, want 1", len(*ran))
	}
	c := (*ran)[0]
	if !equalArgs(c.args, []string{"view", "3", "-cq", "(?i)go lang"}) {
		t.Errorf("args = %q", c.args)
	}
	if !c.paged {
		t.Error("comment view should be paged")
	}
}

func TestExecute_Pagination(t *testing.T) {
	tests := []struct {
		line     string
		paginate bool
		want     bool
	}{
		{"view 1 -c", true, true},
		{"view 1 -c", false, false},
		{"view 1 -c -b", true, false},
		{"view 1 -c > out.txt", true, false},
		{"top 20", true, false},
		{"hiring", true, true},
	}
	for _, tt := range tests {
		s, ran, _, _ := recordingShell(Config{Paginate: tt.paginate}, 0)
		s.execute(tt.line)
		if len(*ran) != 1 {
			t.Errorf("execute(%q) spawned %d commands", tt.line, len(*ran))
			continue
		}
		if got := (*ran)[0].paged; got != tt.want {
			t.Errorf("execute(%q) paginate=%v: paged = %v, want %v", tt.line, tt.paginate, got, tt.want)
		}
	}
}

func TestExecute_ParseError(t *testing.T) {
	s, ran, _, errOut := recordingShell(Config{}, 0)
	s.execute(`hn user "unterminated`)
	if len(*ran) != 0 {
		t.Error("a line that cannot be tokenised must not be run")
	}
	if !strings.Contains(errOut.String(), "parse error") {
		t.Errorf("stderr = %q, want parse error", errOut.String())
	}
}

func TestExecute_BadPipeline(t *testing.T) {
	s, ran, _, errOut := recordingShell(Config{}, 0)
	s.execute("top |")
	if len(*ran) != 0 {
		t.Error("an incomplete pipeline must not be run")
	}
	if errOut.Len() == 0 {
		t.Error("expected an error message")
	}
}

func TestExecute_Hooks(t *testing.T) {
	var before []string
	var afterArgs []string
	afterCode := -1
	s, _, _, _ := recordingShell(Config{Hooks: Hooks{
		BeforeExec: func(args []string) error { before = args; return nil },
		AfterExec:  func(args []string, code int) { afterArgs, afterCode = args, code },
	}}, 3)
	s.execute("hn top 5 | grep Go")
	if !equalArgs(before, []string{"top", "5"}) {
		t.Errorf("BeforeExec args = %v, want [top 5]", before)
	}
	if !equalArgs(afterArgs, []string{"top", "5"}) || afterCode != 3 {
		t.Errorf("AfterExec = %v, %d; want [top 5], 3", afterArgs, afterCode)
	}
}

func TestExecute_BeforeExecCancels(t *testing.T) {
	afterCalled := false
	s, ran, _, errOut := recordingShell(Config{Hooks: Hooks{
		BeforeExec: func([]string) error { return errors.New("blocked") },
		AfterExec:  func([]string, int) { afterCalled = true },
	}}, 0)
	s.execute("top")
	if len(*ran) != 0 || afterCalled {
		t.Error("BeforeExec error must cancel the command and skip AfterExec")
	}
	if !strings.Contains(errOut.String(), "blocked") {
		t.Errorf("stderr = %q, want hook error", errOut.String())
	}
}

func TestExecute_EnvBuiltinNotForwarded(t *testing.T) {
	afterCalled := false
	s, ran, _, _ := recordingShell(Config{EnvBuiltin: "env", Hooks: Hooks{
		AfterExec: func([]string, int) { afterCalled = true },
	}}, 0)
	s.execute("env set HAXOR_LOG_LEVEL debug")
	if len(*ran) != 0 || afterCalled {
		t.Error("env built-in must not spawn hn")
	}
	if s.sessionEnv["HAXOR_LOG_LEVEL"] != "debug" {
		t.Errorf("sessionEnv = %v", s.sessionEnv)
	}
}

// --- built-ins ---

func TestBuiltin_Fuzzy(t *testing.T) {
	s, ran, out, errOut := recordingShell(Config{}, 0)

	s.execute("fuzzy")
	if !s.Fuzzy() {
		t.Error("fuzzy should toggle on")
	}
	if !strings.Contains(out.String(), "fuzzy: on") {
		t.Errorf("status output = %q", out.String())
	}
	s.execute("fuzzy on")
	if !s.Fuzzy() {
		t.Error("fuzzy on should keep fuzzy enabled")
	}
	s.execute("fuzzy off")
	if s.Fuzzy() {
		t.Error("fuzzy off should disable fuzzy")
	}
	s.execute("fuzzy maybe")
	if !strings.Contains(errOut.String(), "usage: fuzzy") {
		t.Errorf("stderr = %q, want usage", errOut.String())
	}
	if len(*ran) != 0 {
		t.Error("built-ins must not spawn hn")
	}
}

func TestBuiltin_Paginate(t *testing.T) {
	s, ran, _, _ := recordingShell(Config{Paginate: true}, 0)
	s.execute("paginate")
	if s.Paginate() {
		t.Error("paginate should toggle off")
	}
	s.execute("view 1 -c")
	if len(*ran) != 1 || (*ran)[0].paged {
		t.Error("comments should not be paged after paginate off")
	}
	s.execute("paginate true")
	if !s.Paginate() {
		t.Error("paginate true should enable pagination")
	}
}

func TestFilterInput_CtrlOTogglesFuzzy(t *testing.T) {
	s, _, _, _ := recordingShell(Config{}, 0)
	if r, ok := s.filterInput('a'); r != 'a' || !ok {
		t.Errorf("filterInput('a') = %q, %v; want passthrough", r, ok)
	}
	if _, ok := s.filterInput(ctrlO); ok {
		t.Error("Ctrl-O must be swallowed")
	}
	if !s.Fuzzy() {
		t.Error("Ctrl-O should enable fuzzy matching")
	}
	s.filterInput(ctrlO)
	if s.Fuzzy() {
		t.Error("second Ctrl-O should disable fuzzy matching")
	}
}

// --- process execution ---

func TestSpawnProcess_Redirect(t *testing.T) {
	echo, err := exec.LookPath("echo")
	if err != nil {
		t.Skip("echo not available")
	}
	s := New(Config{BinaryPath: echo})
	target := filepath.Join(t.TempDir(), "out.txt")
	code, err := s.spawnProcess(&command{args: []string{"hello"}, redirect: target})
	if err != nil || code != 0 {
		t.Fatalf("spawnProcess = %d, %v", code, err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hello\n" {
		t.Errorf("redirected output = %q, want %q", data, "hello\n")
	}
}

func TestSpawnProcess_PipeAndPagerToOut(t *testing.T) {
	echo, err1 := exec.LookPath("echo")
	_, err2 := exec.LookPath("cat")
	_, err3 := exec.LookPath("tr")
	if err1 != nil || err2 != nil || err3 != nil {
		t.Skip("echo, cat or tr not available")
	}
	s := New(Config{BinaryPath: echo, Pager: "cat", Log: logger.Discard()})
	var out bytes.Buffer
	s.out = &out
	code, err := s.spawnProcess(&command{
		args:  []string{"hello"},
		pipes: [][]string{{"tr", "a-z", "A-Z"}},
		paged: true,
	})
	if err != nil || code != 0 {
		t.Fatalf("spawnProcess = %d, %v", code, err)
	}
	if out.String() != "HELLO\n" {
		t.Errorf("output = %q, want %q", out.String(), "HELLO\n")
	}
}

func TestSpawnProcess_MissingPagerPrintsDirectly(t *testing.T) {
	echo, err := exec.LookPath("echo")
	if err != nil {
		t.Skip("echo not available")
	}
	s := New(Config{BinaryPath: echo, Pager: "haxor-no-such-pager -r"})
	var out bytes.Buffer
	s.out = &out
	if _, err := s.spawnProcess(&command{args: []string{"hi"}, paged: true}); err != nil {
		t.Fatal(err)
	}
	if out.String() != "hi\n" {
		t.Errorf("output = %q, want %q", out.String(), "hi\n")
	}
}

func TestRunPipeline_ExitCodes(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	if _, err := exec.LookPath("grep"); err != nil {
		t.Skip("grep not available")
	}
	tests := []struct {
		stages [][]string
		want   int
	}{
		{[][]string{{"sh", "-c", "echo hello"}, {"grep", "hello"}}, 0},
		{[][]string{{"sh", "-c", "echo hello"}, {"grep", "NOMATCH"}}, 1},
		{[][]string{{"sh", "-c", "echo hello; exit 4"}, {"grep", "hello"}}, 4},
	}
	for _, tt := range tests {
		var cmds []*exec.Cmd
		for _, st := range tt.stages {
			cmds = append(cmds, exec.Command(st[0], st[1:]...))
		}
		var out, errOut bytes.Buffer
		code, err := runPipeline(cmds, &out, &errOut)
		if err != nil {
			t.Errorf("runPipeline(%v) error: %v", tt.stages, err)
		}
		if code != tt.want {
			t.Errorf("runPipeline(%v) exit code = %d, want %d", tt.stages, code, tt.want)
		}
	}
}

func TestRunPipeline_StartFailure(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	cmds := []*exec.Cmd{
		exec.Command("sh", "-c", "echo hello"),
		exec.Command("haxor-no-such-command"),
	}
	var out, errOut bytes.Buffer
	if _, err := runPipeline(cmds, &out, &errOut); err == nil {
		t.Error("runPipeline with a missing command should fail")
	}
}

// --- settings ---

func TestFromSettings(t *testing.T) {
	settings := config.Defaults(filepath.Join(t.TempDir(), config.FileName))
	settings.Fuzzy = true
	settings.HiringID = 777
	settings.Prompt = "hn> "

	cfg := FromSettings(os.Args[0], "9.9.9", settings, logger.Discard())
	if !cfg.Engine.Fuzzy() {
		t.Error("engine should start with the configured fuzzy setting")
	}
	if cfg.Prompt != "hn> " || cfg.EnvBuiltin != "env" || !cfg.Paginate {
		t.Errorf("unexpected config: %+v", cfg)
	}
	sc, ok := cfg.Engine.Grammar().Lookup("hiring")
	if !ok || sc.Options[0].Value != "777" {
		t.Errorf("hiring options = %+v, want id 777", sc.Options)
	}

	s := New(cfg)
	var out bytes.Buffer
	s.out = &out
	cfg.Hooks.OnStart(s)
	if !strings.Contains(out.String(), "9.9.9") || !strings.Contains(out.String(), "fuzzy: on") {
		t.Errorf("banner = %q", out.String())
	}
}

func TestSaveSettings_OnlyWhenChanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.FileName)
	settings := config.Defaults(path)
	s := New(FromSettings(os.Args[0], "1", settings, logger.Discard()))

	saveSettings(s, settings, logger.Discard())
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("unchanged settings should not create the file: %v", err)
	}

	s.cfg.Engine.SetFuzzy(true)
	s.paginate = false
	saveSettings(s, settings, logger.Discard())

	loaded, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !loaded.Fuzzy || loaded.Paginate {
		t.Errorf("saved fuzzy=%v paginate=%v, want true/false", loaded.Fuzzy, loaded.Paginate)
	}
	if !settings.Fuzzy || settings.Paginate {
		t.Error("in-memory settings should follow the saved values")
	}
}

func TestSaveSettings_Logging(t *testing.T) {
	dir := t.TempDir()
	settings := config.Defaults(filepath.Join(dir, config.FileName))
	s := New(FromSettings(os.Args[0], "1", settings, logger.Discard()))
	s.cfg.Engine.SetFuzzy(true)

	var logs bytes.Buffer
	saveSettings(s, settings, logger.New("info", &logs))
	if !strings.Contains(logs.String(), "level=info") || !strings.Contains(logs.String(), "saved shell settings") {
		t.Errorf("success log = %q", logs.String())
	}

	// A regular file in place of the config directory makes the save fail.
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	settings = config.Defaults(filepath.Join(blocker, config.FileName))
	s = New(FromSettings(os.Args[0], "1", settings, logger.Discard()))
	s.paginate = false

	logs.Reset()
	saveSettings(s, settings, logger.New("error", &logs))
	if !strings.Contains(logs.String(), "level=error") || !strings.Contains(logs.String(), "could not save shell settings") {
		t.Errorf("failure log = %q", logs.String())
	}
	if !settings.Paginate {
		t.Error("in-memory settings changed although the save failed")
	}
}

func TestHandleBuiltin_LogsSettingsAtInfo(t *testing.T) {
	var logs bytes.Buffer
	s, _, _, _ := recordingShell(Config{Log: logger.New("info", &logs)}, 0)
	s.execute("paginate off")
	if !strings.Contains(logs.String(), "level=info") || !strings.Contains(logs.String(), "paginate=false") {
		t.Errorf("settings log = %q", logs.String())
	}
}
