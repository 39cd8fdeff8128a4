package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"unify-api/domain"
)

// Register wires up all API routes on the provided Echo instance.
func Register(e *echo.Echo, store Storage, auth Authenticator, logger *log.Logger) {
	initHistorySink(store, logger)

	moves := domain.NewMoveService(store, queuedHistory{})
	editor := domain.NewEditorService(store, queuedHistory{})

	e.GET("/api/board", getBoard(store, auth, logger))
	e.POST("/api/board/drag", postDrag(store, moves, auth, logger))
	e.POST("/api/tasks", postTask(editor, auth))
	e.PATCH("/api/tasks/:id", patchTask(editor, auth))
	e.DELETE("/api/tasks/:id", deleteTask(editor, auth))
	e.POST("/api/tasks/:id/move", postMove(moves, auth))
	e.GET("/healthz", healthz(store))
}

func healthz(_ Storage) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}
}

// decodeBody reads a size-limited JSON request body into v, rejecting unknown
// fields.
func decodeBody(c echo.Context, v any) error {
	lr := io.LimitReader(c.Request().Body, requestMaxSize)
	dec := sonic.ConfigStd.NewDecoder(lr)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// projectColumns renders grouped tasks into taxonomy-ordered columns.
func projectColumns(cols domain.Columns) []boardColumn {
	out := make([]boardColumn, 0, len(domain.TaskStatuses))
	for _, s := range domain.TaskStatuses {
		tasks := cols[s.ID]
		out = append(out, boardColumn{
			ID:    s.ID,
			Label: s.Label,
			Count: len(tasks),
			Tasks: tasks,
		})
	}
	return out
}

func warnUnknownStatus(logger *log.Logger, projectID string, unknown []domain.Task) {
	if logger == nil || len(unknown) == 0 {
		return
	}
	ids := make([]string, len(unknown))
	for i, t := range unknown {
		ids[i] = t.ID
	}
	logger.WithFields(log.Fields{
		"project": projectID,
		"tasks":   ids,
	}).Warn("tasks with status outside the taxonomy excluded from board")
}

// writeActionError maps a domain error to the structured error response of
// the write endpoints: field-level 400s for validation, 403 for role denials,
// 404 for missing tasks, generic 500 otherwise.
func writeActionError(c echo.Context, err error) error {
	if ve, ok := domain.AsValidation(err); ok {
		return c.JSON(http.StatusBadRequest, actionResponse{Status: "error", Message: ve.Message, Field: ve.Field})
	}
	if errors.Is(err, domain.ErrForbidden) {
		return c.JSON(http.StatusForbidden, actionResponse{Status: "error", Message: "staff role required"})
	}
	if errors.Is(err, domain.ErrNotFound) {
		return c.JSON(http.StatusNotFound, actionResponse{Status: "error", Message: "task not found"})
	}
	c.Logger().Error(err)
	return c.JSON(http.StatusInternalServerError, actionResponse{Status: "error", Message: "request failed"})
}

func getBoard(store Storage, auth Authenticator, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		ctx := c.Request().Context()
		metrics, spanCtx := newBoardRequestMetrics(ctx, logger)
		if spanCtx != nil {
			c.SetRequest(c.Request().WithContext(spanCtx))
			ctx = spanCtx
		}
		defer func() {
			metrics.Log(c.Response().Status, err)
		}()

		authStart := time.Now()
		profile, authErr := auth.ProfileFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization))
		metrics.ObserveAuth(time.Since(authStart))
		if authErr != nil {
			metrics.SetErrorStage("auth")
			err = c.String(http.StatusUnauthorized, authErr.Error())
			return err
		}
		if !domain.Can(profile.Role, domain.OpViewBoard) {
			metrics.SetErrorStage("role")
			err = c.String(http.StatusForbidden, "role may not view the board")
			return err
		}

		projectID := c.QueryParam("projectId")
		if projectID == "" {
			metrics.SetErrorStage("missing_project")
			err = c.String(http.StatusBadRequest, "missing projectId")
			return err
		}

		fetchStart := time.Now()
		tasks, fetchErr := store.FetchTasks(ctx, projectID)
		metrics.ObserveFetch(time.Since(fetchStart))
		if fetchErr != nil {
			metrics.SetErrorStage("storage")
			c.Logger().Error(fetchErr)
			err = c.String(http.StatusInternalServerError, "failed to load board")
			return err
		}
		metrics.SetTasksReturned(len(tasks))

		projectStart := time.Now()
		cols, unknown := domain.GroupTasks(tasks)
		metrics.ObserveProject(time.Since(projectStart))
		metrics.SetUnknownStatus(len(unknown))
		warnUnknownStatus(logger, projectID, unknown)

		encodeStart := time.Now()
		err = c.JSON(http.StatusOK, boardResponse{Columns: projectColumns(cols)})
		metrics.ObserveEncode(time.Since(encodeStart))
		if err != nil {
			metrics.SetErrorStage("encode_response")
		}
		return err
	}
}

func postDrag(store Storage, moves domain.MoveService, auth Authenticator, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		profile, err := auth.ProfileFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			return c.String(http.StatusUnauthorized, err.Error())
		}
		if !domain.Can(profile.Role, domain.OpMoveTask) {
			return c.JSON(http.StatusForbidden, actionResponse{Status: "error", Message: "staff role required"})
		}

		var req dragRequest
		if err := decodeBody(c, &req); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		if req.ProjectID == "" || req.ActiveID == "" || req.OverID == "" {
			return c.JSON(http.StatusBadRequest, actionResponse{Status: "error", Message: "projectId, activeId and overId are required"})
		}

		tasks, err := store.FetchTasks(ctx, req.ProjectID)
		if err != nil {
			c.Logger().Error(err)
			return c.JSON(http.StatusInternalServerError, actionResponse{Status: "error", Message: "failed to load board"})
		}

		board, unknown := domain.NewBoard(tasks)
		warnUnknownStatus(logger, req.ProjectID, unknown)

		move, ok := board.ApplyDrag(domain.Gesture{ActiveID: req.ActiveID, OverID: req.OverID}, domain.NextPosition())
		if !ok {
			return c.JSON(http.StatusOK, dragResponse{
				Status:  "success",
				Moved:   false,
				Columns: projectColumns(board.Columns),
			})
		}

		// The reconciled board above is the optimistic state; persistence
		// failure flags the task stale instead of reverting it.
		if err := moves.Move(ctx, profile, move.TaskID, move.Status, move.Position); err != nil {
			if ve, ok := domain.AsValidation(err); ok {
				return c.JSON(http.StatusBadRequest, actionResponse{Status: "error", Message: ve.Message, Field: ve.Field})
			}
			if errors.Is(err, domain.ErrForbidden) {
				return c.JSON(http.StatusForbidden, actionResponse{Status: "error", Message: "staff role required"})
			}
			board.MarkStale(move.TaskID)
			c.Logger().Error(err)
			return c.JSON(http.StatusInternalServerError, dragResponse{
				Status:       "error",
				Moved:        false,
				Message:      moveErrorMessage,
				Columns:      projectColumns(board.Columns),
				StaleTaskIDs: board.StaleTasks(),
			})
		}

		return c.JSON(http.StatusOK, dragResponse{
			Status:  "success",
			Moved:   true,
			Columns: projectColumns(board.Columns),
		})
	}
}

func postMove(moves domain.MoveService, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		profile, err := auth.ProfileFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			return c.String(http.StatusUnauthorized, err.Error())
		}

		var req taskMoveRequest
		if err := decodeBody(c, &req); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		position := domain.NextPosition()
		if req.Position != nil {
			position = *req.Position
		}

		if err := moves.Move(c.Request().Context(), profile, c.Param("id"), req.Status, position); err != nil {
			return writeActionError(c, err)
		}
		return c.JSON(http.StatusOK, actionResponse{Status: "success", Message: "task moved"})
	}
}

func postTask(editor domain.EditorService, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		profile, err := auth.ProfileFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			return c.String(http.StatusUnauthorized, err.Error())
		}

		var in domain.CreateTaskInput
		if err := decodeBody(c, &in); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}

		task, err := editor.Create(c.Request().Context(), profile, in)
		if err != nil {
			return writeActionError(c, err)
		}
		return c.JSON(http.StatusCreated, actionResponse{Status: "success", Message: "task created successfully", Task: &task})
	}
}

func patchTask(editor domain.EditorService, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		profile, err := auth.ProfileFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			return c.String(http.StatusUnauthorized, err.Error())
		}

		var patch domain.TaskPatch
		if err := decodeBody(c, &patch); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}

		if err := editor.Update(c.Request().Context(), profile, c.Param("id"), patch); err != nil {
			return writeActionError(c, err)
		}
		return c.JSON(http.StatusOK, actionResponse{Status: "success", Message: "task updated successfully"})
	}
}

func deleteTask(editor domain.EditorService, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		profile, err := auth.ProfileFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			return c.String(http.StatusUnauthorized, err.Error())
		}

		if err := editor.Delete(c.Request().Context(), profile, c.Param("id")); err != nil {
			return writeActionError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}
