package cli

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/sessiontrack/internal/domain"
	"github.com/emiliopalmerini/sessiontrack/internal/sessions"
)

// interactiveTerminator ends interactive message entry.
const interactiveTerminator = "END"

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Capture a conversation session",
	Long: `Capture a conversation, generate its AI insight and archive it.

Messages are read as JSON from --file ("-" for stdin): either an array of
{"author", "content", "timestamp"} objects or an object with a "messages"
array plus optional "session_key", "source" and "project".

With --interactive, messages are typed one per line as "author: content"
and entry ends with a line containing only END.

Examples:
  sessiontrack capture --file standup.json --project Apollo
  cat chat.json | sessiontrack capture --file - --level minimal
  sessiontrack capture --interactive --link <project-id>`,
	RunE: runCapture,
}

var (
	captureFile        string
	captureInteractive bool
	captureKey         string
	captureSource      string
	captureProject     string
	captureLevel       string
	captureLink        string
)

func init() {
	captureCmd.Flags().StringVarP(&captureFile, "file", "f", "", `JSON file with messages ("-" for stdin)`)
	captureCmd.Flags().BoolVarP(&captureInteractive, "interactive", "i", false, "Type messages line by line")
	captureCmd.Flags().StringVarP(&captureKey, "key", "k", "", "Session key (default \"unnamed\")")
	captureCmd.Flags().StringVarP(&captureSource, "source", "s", "", "Session source (default \"cli\")")
	captureCmd.Flags().StringVarP(&captureProject, "project", "p", "", "Project name or id to tag the session with")
	captureCmd.Flags().StringVarP(&captureLevel, "level", "l", "standard", "Insight level: minimal, standard, comprehensive")
	captureCmd.Flags().StringVar(&captureLink, "link", "", "Project id to link the archived session to")
	captureCmd.MarkFlagsMutuallyExclusive("file", "interactive")
	captureCmd.MarkFlagsOneRequired("file", "interactive")
}

// captureDocument is the object form of a capture file.
type captureDocument struct {
	SessionKey string           `json:"session_key"`
	Source     string           `json:"source"`
	Project    *string          `json:"project"`
	Messages   []domain.Message `json:"messages"`
}

func runCapture(cmd *cobra.Command, args []string) error {
	level, err := domain.ParseInsightLevel(captureLevel)
	if err != nil {
		return err
	}

	var doc captureDocument
	if captureInteractive {
		fmt.Fprintf(cmd.ErrOrStderr(), "Enter messages as \"author: content\", finish with %s\n", interactiveTerminator)
		doc.Messages, err = parseInteractive(cmd.InOrStdin())
	} else {
		doc, err = readCaptureFile(cmd, captureFile)
	}
	if err != nil {
		return err
	}

	in := sessions.CaptureInput{
		Messages:   doc.Messages,
		SessionKey: firstNonEmpty(captureKey, doc.SessionKey),
		Source:     firstNonEmpty(captureSource, doc.Source),
		Project:    doc.Project,
		Level:      level,
	}
	if captureProject != "" {
		in.Project = &captureProject
	}

	return withApp(cmd.Context(), func(app *AppContext) error {
		session, err := app.Sessions.Capture(cmd.Context(), in)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		renderSession(out, session, false)
		fmt.Fprintf(out, "\nSession captured: %s\n", session.FilePath)

		if captureLink == "" {
			return nil
		}
		ok, err := app.Projects.AddSessionLink(cmd.Context(), captureLink, session.FilePath)
		if err != nil {
			return fmt.Errorf("session saved but linking failed: %w", err)
		}
		if !ok {
			return fmt.Errorf("session saved but project %s was not found", captureLink)
		}
		fmt.Fprintf(out, "Linked to project %s\n", captureLink)
		return nil
	})
}

func readCaptureFile(cmd *cobra.Command, path string) (captureDocument, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return captureDocument{}, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}
	return parseCaptureJSON(r)
}

// parseCaptureJSON accepts either a bare message array or a capture document.
func parseCaptureJSON(r io.Reader) (captureDocument, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return captureDocument{}, fmt.Errorf("failed to read messages: %w", err)
	}
	data = bytes.TrimSpace(data)

	var doc captureDocument
	if len(data) > 0 && data[0] == '[' {
		if err := json.Unmarshal(data, &doc.Messages); err != nil {
			return captureDocument{}, fmt.Errorf("invalid message array: %w", err)
		}
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return captureDocument{}, fmt.Errorf("invalid capture document: %w", err)
	}
	return doc, nil
}

// parseInteractive reads "author: content" lines until END or EOF. Lines
// without a colon are attributed to the unknown author; blank lines are skipped.
func parseInteractive(r io.Reader) ([]domain.Message, error) {
	var messages []domain.Message
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == interactiveTerminator {
			break
		}
		if line == "" {
			continue
		}
		author, content, ok := strings.Cut(line, ":")
		if !ok {
			messages = append(messages, domain.Message{Content: line})
			continue
		}
		messages = append(messages, domain.Message{
			Author:  strings.TrimSpace(author),
			Content: strings.TrimSpace(content),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read messages: %w", err)
	}
	return messages, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
