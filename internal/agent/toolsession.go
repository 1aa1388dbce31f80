package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/medpass/medpass/internal/logging"
)

// ToolSession is an agent's window onto the tool provider: the advertised
// tool snapshot plus the ability to invoke tools by name.
type ToolSession interface {
	// Tools returns the provider's advertised tool names. The snapshot is
	// taken once per session and cached.
	Tools(ctx context.Context) ([]string, error)
	// Call invokes a tool and returns its reply decoded as a JSON object.
	Call(ctx context.Context, tool string, args map[string]any) (map[string]any, error)
	Close() error
}

// MCPSession talks to the embedded tool server over stdio, spawning it as a
// child process on first use. One session serves the whole agent process
// and its tool snapshot lives exactly as long as the session does.
type MCPSession struct {
	command string
	args    []string

	mu      sync.Mutex
	session *mcp.ClientSession
	tools   []string

	log zerolog.Logger
}

var _ ToolSession = (*MCPSession)(nil)

// NewMCPSession prepares a session that will launch the given command as
// the tool server. Nothing is spawned until the first Tools or Call.
func NewMCPSession(command string, args ...string) *MCPSession {
	return &MCPSession{command: command, args: args, log: logging.Component("tools")}
}

// SelfCommand resolves the running binary so an agent can host its own tool
// server subprocess.
func SelfCommand() string {
	exe, err := os.Executable()
	if err != nil {
		return os.Args[0]
	}
	return exe
}

// ensure connects and snapshots the advertised tools on first use.
func (s *MCPSession) ensure(ctx context.Context) (*mcp.ClientSession, []string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != nil {
		return s.session, s.tools, nil
	}

	client := mcp.NewClient(&mcp.Implementation{Name: "medpass-agent", Version: Version}, nil)
	cmd := exec.Command(s.command, s.args...)
	cmd.Stderr = os.Stderr
	session, err := client.Connect(ctx, &mcp.CommandTransport{Command: cmd}, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("connect tool server: %w", err)
	}

	list, err := session.ListTools(ctx, nil)
	if err != nil {
		_ = session.Close()
		return nil, nil, fmt.Errorf("list tools: %w", err)
	}
	names := make([]string, 0, len(list.Tools))
	for _, t := range list.Tools {
		names = append(names, t.Name)
	}

	s.session, s.tools = session, names
	s.log.Debug().Strs("tools", names).Msg("tool session ready")
	return s.session, s.tools, nil
}

// Tools implements ToolSession.
func (s *MCPSession) Tools(ctx context.Context) ([]string, error) {
	_, tools, err := s.ensure(ctx)
	return tools, err
}

// Call implements ToolSession. Replies must be JSON objects; anything else
// is reported as MalformedToolReply.
func (s *MCPSession) Call(ctx context.Context, tool string, args map[string]any) (map[string]any, error) {
	session, _, err := s.ensure(ctx)
	if err != nil {
		return nil, err
	}

	s.log.Debug().Str("tool", tool).Interface("payload", args).Msg("tool call")
	res, err := session.CallTool(ctx, &mcp.CallToolParams{Name: tool, Arguments: args})
	if err != nil {
		return nil, fmt.Errorf("call tool %s: %w", tool, err)
	}

	text := textContent(res)
	if res.IsError {
		return nil, fmt.Errorf("tool %s failed: %s", tool, text)
	}

	if m, ok := res.StructuredContent.(map[string]any); ok {
		s.log.Debug().Str("tool", tool).Strs("reply_keys", sortedKeys(m)).Msg("tool reply")
		return m, nil
	}
	var reply map[string]any
	if err := json.Unmarshal([]byte(text), &reply); err != nil || reply == nil {
		s.log.Error().Str("tool", tool).Str("reply", snippet(text)).Msg("tool reply is not a JSON object")
		return nil, MalformedToolReply("tool %s reply is not a JSON object", tool)
	}
	s.log.Debug().Str("tool", tool).Strs("reply_keys", sortedKeys(reply)).Msg("tool reply")
	return reply, nil
}

// Close implements ToolSession. The tool server subprocess exits with the
// session.
func (s *MCPSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil
	}
	err := s.session.Close()
	s.session, s.tools = nil, nil
	return err
}

func textContent(res *mcp.CallToolResult) string {
	var b strings.Builder
	for _, c := range res.Content {
		if t, ok := c.(*mcp.TextContent); ok {
			b.WriteString(t.Text)
		}
	}
	return b.String()
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func snippet(s string) string {
	const max = 200
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
