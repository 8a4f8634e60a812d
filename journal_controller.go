package nippo

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const reportDateLayout = "2006-01-02"

type JournalControllerRoutes struct {
	Reports   string
	Report    string
	Reactions string
	Emojis    string
	Emoji     string
}

// JournalController exposes the report, reaction and emoji endpoints
type JournalController struct {
	Logger  Logger
	Repo    RepositoryManager
	Routes  *JournalControllerRoutes
	Session Sessioner
}

type JournalControllerOption func(*JournalController) *JournalController

func NewJournalController(opts ...JournalControllerOption) *JournalController {
	c := &JournalController{
		Logger: defLogger{},
		Routes: &JournalControllerRoutes{
			Reports:   "/reports",
			Report:    "/reports/:id",
			Reactions: "/reports/:id/reactions",
			Emojis:    "/emojis",
			Emoji:     "/emojis/:id",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in journal controller...")
	}

	if c.Session == nil {
		panic("Missing SessionManager in journal controller...")
	}

	return c
}

func WithJournalRepo(repo RepositoryManager) JournalControllerOption {
	return func(c *JournalController) *JournalController {
		c.Repo = repo
		return c
	}
}

func WithJournalSession(session Sessioner) JournalControllerOption {
	return func(c *JournalController) *JournalController {
		c.Session = session
		return c
	}
}

func WithJournalLogger(l Logger) JournalControllerOption {
	return func(c *JournalController) *JournalController {
		c.Logger = l
		return c
	}
}

// RegisterJournalRoutes mounts the journal endpoints. The caller is
// expected to guard the registrar with the session middleware.
func RegisterJournalRoutes(app RouteRegistrar, opts ...JournalControllerOption) *JournalController {
	controller := NewJournalController(opts...)

	app.Get(controller.Routes.Reports, controller.ListReports)
	app.Post(controller.Routes.Reports, controller.CreateReport)
	app.Put(controller.Routes.Report, controller.UpdateReport)
	app.Delete(controller.Routes.Report, controller.DeleteReport)
	app.Post(controller.Routes.Reactions, controller.ToggleReaction)
	app.Get(controller.Routes.Emojis, controller.ListEmojis)
	app.Post(controller.Routes.Emojis, controller.CreateEmoji)
	app.Delete(controller.Routes.Emoji, controller.DeleteEmoji)

	return controller
}

func (a *JournalController) currentSession(ctx router.Context) (*SessionObject, error) {
	session, err := a.Session.CurrentUser(ctx)
	if err != nil {
		return nil, ErrNotAuthenticated
	}
	return session, nil
}

// ListReports returns the feed for a single day, newest first
func (a *JournalController) ListReports(ctx router.Context) error {
	session, err := a.currentSession(ctx)
	if err != nil {
		return renderError(ctx, err)
	}

	date := ctx.Query("date", time.Now().Format(reportDateLayout))
	if _, err := time.Parse(reportDateLayout, date); err != nil {
		return renderError(ctx, errors.New("date must be formatted as YYYY-MM-DD", errors.CategoryBadInput).
			WithCode(errors.CodeBadRequest))
	}

	records, err := a.Repo.Reports().ListByDate(ctx.Context(), date)
	if err != nil {
		a.Logger.Error("list reports: %s", err)
		return renderError(ctx, err)
	}

	feed := make([]FeedReport, 0, len(records))
	for _, record := range records {
		feed = append(feed, feedReport(record, session.GetUserID()))
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"date":    date,
		"reports": feed,
	})
}

// CreateReportPayload is the create report request body
type CreateReportPayload struct {
	Content    string `json:"content"`
	ReportDate string `json:"report_date"`
}

// Validate will run validation rules
func (r CreateReportPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Content,
			validation.Required,
			validation.Length(1, 280),
		),
		validation.Field(
			&r.ReportDate,
			validation.Date(reportDateLayout),
		),
	)
}

func (a *JournalController) CreateReport(ctx router.Context) error {
	session, err := a.currentSession(ctx)
	if err != nil {
		return renderError(ctx, err)
	}

	payload := new(CreateReportPayload)
	if err := ctx.Bind(payload); err != nil {
		return renderError(ctx, errors.Wrap(err, errors.CategoryBadInput, "Failed to parse request body").
			WithCode(errors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return renderValidationError(ctx, err)
	}

	userID, err := session.GetUserUUID()
	if err != nil {
		return renderError(ctx, errors.Wrap(err, errors.CategoryAuth, "invalid session subject").
			WithCode(errors.CodeUnauthorized))
	}

	reportDate := payload.ReportDate
	if reportDate == "" {
		reportDate = time.Now().Format(reportDateLayout)
	}

	record := &Report{
		ID:         uuid.New(),
		UserID:     userID,
		Content:    payload.Content,
		ReportDate: reportDate,
	}

	if record, err = a.Repo.Reports().Create(ctx.Context(), record); err != nil {
		a.Logger.Error("create report: %s", err)
		return renderError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"success": true,
		"report":  record,
	})
}

// UpdateReportPayload is the update report request body
type UpdateReportPayload struct {
	Content string `json:"content"`
}

// Validate will run validation rules
func (r UpdateReportPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Content,
			validation.Required,
			validation.Length(1, 280),
		),
	)
}

func (a *JournalController) UpdateReport(ctx router.Context) error {
	session, err := a.currentSession(ctx)
	if err != nil {
		return renderError(ctx, err)
	}

	record, err := a.getOwnedReport(ctx, session)
	if err != nil {
		return renderError(ctx, err)
	}

	payload := new(UpdateReportPayload)
	if err := ctx.Bind(payload); err != nil {
		return renderError(ctx, errors.Wrap(err, errors.CategoryBadInput, "Failed to parse request body").
			WithCode(errors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return renderValidationError(ctx, err)
	}

	record.Content = payload.Content

	if record, err = a.Repo.Reports().Update(ctx.Context(), record, repository.UpdateByID(record.ID.String())); err != nil {
		a.Logger.Error("update report: %s", err)
		return renderError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"success": true,
		"report":  record,
	})
}

func (a *JournalController) DeleteReport(ctx router.Context) error {
	session, err := a.currentSession(ctx)
	if err != nil {
		return renderError(ctx, err)
	}

	record, err := a.getOwnedReport(ctx, session)
	if err != nil {
		return renderError(ctx, err)
	}

	err = a.Repo.RunInTx(ctx.Context(), nil, func(c context.Context, tx bun.Tx) error {
		if err := a.Repo.Reactions().DeleteByReportTx(c, tx, record.ID); err != nil {
			return err
		}
		return a.Repo.Reports().DeleteByIDTx(c, tx, record.ID)
	})
	if err != nil {
		a.Logger.Error("delete report: %s", err)
		return renderError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"success": true,
	})
}

// ToggleReactionPayload is the reaction request body
type ToggleReactionPayload struct {
	EmojiName string `json:"emoji_name"`
}

// Validate will run validation rules
func (r ToggleReactionPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.EmojiName,
			validation.Required,
			validation.Length(1, 100),
		),
	)
}

func (a *JournalController) ToggleReaction(ctx router.Context) error {
	session, err := a.currentSession(ctx)
	if err != nil {
		return renderError(ctx, err)
	}

	reportID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return renderError(ctx, ErrReportNotFound)
	}

	payload := new(ToggleReactionPayload)
	if err := ctx.Bind(payload); err != nil {
		return renderError(ctx, errors.Wrap(err, errors.CategoryBadInput, "Failed to parse request body").
			WithCode(errors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return renderValidationError(ctx, err)
	}

	if _, err := a.Repo.Reports().GetByID(ctx.Context(), reportID.String()); err != nil {
		if repository.IsRecordNotFound(err) {
			return renderError(ctx, ErrReportNotFound)
		}
		return renderError(ctx, err)
	}

	userID, err := session.GetUserUUID()
	if err != nil {
		return renderError(ctx, errors.Wrap(err, errors.CategoryAuth, "invalid session subject").
			WithCode(errors.CodeUnauthorized))
	}

	added, err := a.Repo.Reactions().Toggle(ctx.Context(), reportID, userID, payload.EmojiName)
	if err != nil {
		a.Logger.Error("toggle reaction: %s", err)
		return renderError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"success": true,
		"reacted": added,
	})
}

// ListEmojis returns every registered custom emoji
func (a *JournalController) ListEmojis(ctx router.Context) error {
	if _, err := a.currentSession(ctx); err != nil {
		return renderError(ctx, err)
	}

	records, err := a.Repo.CustomEmojis().List(ctx.Context())
	if err != nil {
		a.Logger.Error("list emojis: %s", err)
		return renderError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"emojis": records,
	})
}

// CreateEmojiPayload is the emoji registration body
type CreateEmojiPayload struct {
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
}

// Validate will run validation rules
func (r CreateEmojiPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Name,
			validation.Required,
			validation.Length(1, 100),
			validation.Match(usernameRx),
		),
		validation.Field(
			&r.ImageURL,
			validation.Required,
			validation.Length(1, 2048),
		),
	)
}

func (a *JournalController) CreateEmoji(ctx router.Context) error {
	session, err := a.currentSession(ctx)
	if err != nil {
		return renderError(ctx, err)
	}

	payload := new(CreateEmojiPayload)
	if err := ctx.Bind(payload); err != nil {
		return renderError(ctx, errors.Wrap(err, errors.CategoryBadInput, "Failed to parse request body").
			WithCode(errors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return renderValidationError(ctx, err)
	}

	userID, err := session.GetUserUUID()
	if err != nil {
		return renderError(ctx, errors.Wrap(err, errors.CategoryAuth, "invalid session subject").
			WithCode(errors.CodeUnauthorized))
	}

	record := &CustomEmoji{
		UserID:   userID,
		Name:     payload.Name,
		ImageURL: payload.ImageURL,
	}

	if record, err = a.Repo.CustomEmojis().Create(ctx.Context(), record); err != nil {
		a.Logger.Error("create emoji: %s", err)
		return renderError(ctx, errors.Wrap(err, errors.CategoryConflict, "could not create custom emoji").
			WithCode(errors.CodeBadRequest))
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"success": true,
		"emoji":   record,
	})
}

func (a *JournalController) DeleteEmoji(ctx router.Context) error {
	session, err := a.currentSession(ctx)
	if err != nil {
		return renderError(ctx, err)
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return renderError(ctx, ErrEmojiNotFound)
	}

	record, err := a.Repo.CustomEmojis().GetByID(ctx.Context(), id)
	if err != nil {
		return renderError(ctx, err)
	}

	if record.UserID.String() != session.GetUserID() {
		return renderError(ctx, ErrNotEmojiOwner)
	}

	if err := a.Repo.CustomEmojis().Delete(ctx.Context(), id); err != nil {
		a.Logger.Error("delete emoji: %s", err)
		return renderError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"success": true,
	})
}

func (a *JournalController) getOwnedReport(ctx router.Context, session *SessionObject) (*Report, error) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return nil, ErrReportNotFound
	}

	record, err := a.Repo.Reports().GetByID(ctx.Context(), id.String())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}

	if record.UserID.String() != session.GetUserID() {
		return nil, ErrNotReportAuthor
	}

	return record, nil
}

// feedReport folds raw reactions into per emoji counts for the viewer
func feedReport(record *Report, viewerID string) FeedReport {
	counts := map[string]*ReactionCount{}
	order := []string{}

	for _, reaction := range record.Reactions {
		entry, ok := counts[reaction.EmojiName]
		if !ok {
			entry = &ReactionCount{EmojiName: reaction.EmojiName}
			counts[reaction.EmojiName] = entry
			order = append(order, reaction.EmojiName)
		}
		entry.Count++
		if reaction.UserID.String() == viewerID {
			entry.Reacted = true
		}
	}

	reactions := make([]ReactionCount, 0, len(order))
	for _, name := range order {
		reactions = append(reactions, *counts[name])
	}

	out := FeedReport{
		ID:         record.ID.String(),
		Content:    record.Content,
		ReportDate: record.ReportDate,
		CreatedAt:  record.CreatedAt,
		Reactions:  reactions,
	}

	if record.User != nil {
		out.User = record.User.Public()
	}

	return out
}
