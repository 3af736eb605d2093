package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path"
	"slices"
	"sort"
	"strings"

	"github.com/dmitrijs2005/cargodesk/internal/client/client"
	"github.com/dmitrijs2005/cargodesk/internal/client/draft"
	"github.com/dmitrijs2005/cargodesk/internal/client/models"
	"github.com/dmitrijs2005/cargodesk/internal/client/session"
	"github.com/dmitrijs2005/cargodesk/internal/logging"
	"github.com/google/uuid"
)

type OutcomeKind int

const (
	OutcomeFailure OutcomeKind = iota
	OutcomeSuccess
	// OutcomePartialSuccess: the application was saved but attaching its
	// mode failed. RetryModeAttachment repeats only the attachment.
	OutcomePartialSuccess
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomePartialSuccess:
		return "partial success"
	default:
		return "failure"
	}
}

// Outcome is the result of a submission. Submit never returns an error;
// every problem is folded into a Failure or PartialSuccess outcome.
type Outcome struct {
	Kind          OutcomeKind
	ApplicationID int64
	// ModeID is the mode left unattached by a partial success.
	ModeID  int64
	Message string
	// Unauthorized marks a failure that ended the session; the user has
	// already been sent to the login screen.
	Unauthorized bool
}

func (o Outcome) OK() bool { return o.Kind == OutcomeSuccess }

type ApplicationConfig struct {
	SuccessPath     string
	FallbackMessage string
	// SuppressedErrorKeys are server error keys left out of messages.
	SuppressedErrorKeys []string
}

const DefaultFallbackMessage = "Something went wrong. Please try again."

// DefaultSuppressedErrorKeys returns the server error keys hidden by
// default. The declaration file key only ever carries upload noise.
func DefaultSuppressedErrorKeys() []string {
	return []string{draft.FieldDeclarationFile}
}

func (c ApplicationConfig) withDefaults() ApplicationConfig {
	if c.SuccessPath == "" {
		c.SuccessPath = DefaultSuccessPath
	}
	if c.FallbackMessage == "" {
		c.FallbackMessage = DefaultFallbackMessage
	}
	if c.SuppressedErrorKeys == nil {
		c.SuppressedErrorKeys = DefaultSuppressedErrorKeys()
	}
	return c
}

// ApplicationService submits and loads applications.
type ApplicationService interface {
	Submit(ctx context.Context, d draft.Draft) Outcome
	RetryModeAttachment(ctx context.Context, applicationID, modeID int64) Outcome
	Load(ctx context.Context, id int64) (draft.Draft, error)
}

type applicationService struct {
	api     API
	session *session.Session
	auth    AuthService
	nav     Navigator
	cfg     ApplicationConfig
	log     logging.Logger
}

func NewApplicationService(api API, sess *session.Session, auth AuthService, nav Navigator, cfg ApplicationConfig, log logging.Logger) ApplicationService {
	if log == nil {
		log = logging.Nop{}
	}
	return &applicationService{
		api:     api,
		session: sess,
		auth:    auth,
		nav:     nav,
		cfg:     cfg.withDefaults(),
		log:     log,
	}
}

type applicationResponse struct {
	ID int64 `json:"id"`
}

func (s *applicationService) Submit(ctx context.Context, d draft.Draft) Outcome {
	if err := draft.Check(d); err != nil {
		var ve *draft.ValidationError
		if errors.As(err, &ve) {
			return Outcome{Kind: OutcomeFailure, Message: formatIssues(ve.Issues)}
		}
		return s.fail(ctx, err)
	}

	p, err := draft.BuildPayload(d)
	if err != nil {
		return s.fail(ctx, err)
	}

	req := s.rootRequest(d, p)
	resp, err := s.api.Do(ctx, req)
	if err != nil {
		return s.fail(ctx, err)
	}

	id := d.ApplicationID
	var body applicationResponse
	if err := resp.Decode(&body); err == nil && body.ID > 0 {
		id = body.ID
	}
	if id <= 0 {
		return s.fail(ctx, fmt.Errorf("response carries no application id"))
	}
	s.log.Info(ctx, "application saved", "id", id, "mode", string(d.Mode))

	if d.Mode == draft.ModeCreate && len(d.Modes) > 0 {
		modeID := d.Modes[0].ModeID
		if err := s.attachMode(ctx, id, modeID); err != nil {
			s.remember(ctx, id)
			return s.partial(ctx, err, id, modeID)
		}
	}

	return s.succeed(ctx, id)
}

func (s *applicationService) RetryModeAttachment(ctx context.Context, applicationID, modeID int64) Outcome {
	if err := s.attachMode(ctx, applicationID, modeID); err != nil {
		return s.partial(ctx, err, applicationID, modeID)
	}
	return s.succeed(ctx, applicationID)
}

func (s *applicationService) Load(ctx context.Context, id int64) (draft.Draft, error) {
	resp, err := s.api.Do(ctx, &client.Request{Method: http.MethodGet, Path: applicationPath(id)})
	if err != nil {
		return draft.Draft{}, fmt.Errorf("load application %d: %w", id, err)
	}

	var rec models.ApplicationRecord
	if err := resp.Decode(&rec); err != nil {
		return draft.Draft{}, fmt.Errorf("load application %d: %w", id, err)
	}
	if rec.ID == 0 {
		rec.ID = id
	}
	return draft.FromRecord(rec), nil
}

func applicationPath(id int64) string {
	return fmt.Sprintf("/application/%d/", id)
}

func (s *applicationService) rootRequest(d draft.Draft, p draft.Payload) *client.Request {
	method, target := http.MethodPost, "/application/"
	if d.Mode == draft.ModeEdit {
		method, target = http.MethodPut, applicationPath(d.ApplicationID)
	}

	if !p.Multipart() {
		return client.NewJSONRequest(method, target, p.JSON())
	}

	form := &client.Form{}
	for _, f := range p.Fields {
		form.Fields = append(form.Fields, client.FormField{Name: f.Name, Value: f.Text()})
	}
	for _, f := range p.Files {
		form.Files = append(form.Files, client.FormFile{Field: f.Field, FileName: fileName(f), Content: f.Content})
	}
	return client.NewFormRequest(method, target, form)
}

// fileName gives nameless uploads a unique name; photos taken in-app
// have none.
func fileName(f draft.PayloadFile) string {
	if f.FileName != "" {
		return path.Base(f.FileName)
	}
	ext := ".bin"
	if f.Field == draft.FieldPhotos {
		ext = ".jpg"
	}
	return uuid.NewString() + ext
}

func (s *applicationService) attachMode(ctx context.Context, applicationID, modeID int64) error {
	_, err := s.api.Do(ctx, client.NewJSONRequest(http.MethodPost, "/modes/application_modes/", models.ApplicationModeRequest{
		ModeID:        modeID,
		ApplicationID: applicationID,
	}))
	return err
}

func (s *applicationService) remember(ctx context.Context, id int64) {
	if err := s.session.SetCurrentApplicationID(ctx, id); err != nil {
		s.log.Error(ctx, "persist application id", "id", id, "error", err)
	}
}

func (s *applicationService) succeed(ctx context.Context, id int64) Outcome {
	s.remember(ctx, id)
	if s.nav != nil {
		s.nav.Navigate(ctx, s.cfg.SuccessPath)
	}
	return Outcome{Kind: OutcomeSuccess, ApplicationID: id}
}

func (s *applicationService) partial(ctx context.Context, err error, id, modeID int64) Outcome {
	s.log.Warn(ctx, "mode attachment failed", "id", id, "mode_id", modeID, "error", err)
	out := s.fail(ctx, err)
	return Outcome{
		Kind:          OutcomePartialSuccess,
		ApplicationID: id,
		ModeID:        modeID,
		Message:       out.Message,
		Unauthorized:  out.Unauthorized,
	}
}

func (s *applicationService) fail(ctx context.Context, err error) Outcome {
	var se *client.StatusError
	if errors.As(err, &se) && se.StatusCode == http.StatusUnauthorized {
		// a failed refresh has already logged out and redirected
		if s.auth != nil && s.auth.IsAuthenticated(ctx) {
			s.log.Warn(ctx, "session rejected, logging out")
			s.auth.ForceLogout(ctx)
		}
		return Outcome{Kind: OutcomeFailure, Unauthorized: true}
	}

	if se != nil {
		if msg := FieldErrorMessage(se.Body, s.cfg.SuppressedErrorKeys); msg != "" {
			return Outcome{Kind: OutcomeFailure, Message: msg}
		}
	}

	s.log.Warn(ctx, "submission failed", "error", err)
	return Outcome{Kind: OutcomeFailure, Message: s.cfg.FallbackMessage}
}

// FieldErrorMessage renders a field-keyed error body as one "key: message"
// line per key, sorted by key. It returns "" when body is not a JSON
// object or holds no messages outside the suppressed keys.
func FieldErrorMessage(body []byte, suppressed []string) string {
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return ""
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		if !slices.Contains(suppressed, k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var lines []string
	for _, k := range keys {
		msgs := collectMessages(fields[k], nil)
		if len(msgs) == 0 {
			continue
		}
		lines = append(lines, k+": "+strings.Join(msgs, " "))
	}
	return strings.Join(lines, "\n")
}

// collectMessages flattens strings, lists and nested objects (errors on
// array-encoded rows) into their message texts.
func collectMessages(v any, out []string) []string {
	switch t := v.(type) {
	case string:
		if s := strings.TrimSpace(t); s != "" {
			out = append(out, s)
		}
	case []any:
		for _, e := range t {
			out = collectMessages(e, out)
		}
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			out = collectMessages(t[k], out)
		}
	case nil:
	default:
		out = append(out, fmt.Sprint(t))
	}
	return out
}

func formatIssues(issues []draft.Issue) string {
	sorted := slices.Clone(issues)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Field < sorted[j].Field })

	lines := make([]string, len(sorted))
	for i, is := range sorted {
		lines[i] = is.String()
	}
	return strings.Join(lines, "\n")
}
