package ui

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"sheetgen/adapters/excel"
	"sheetgen/app"
	"sheetgen/domain/core"
	"sheetgen/domain/generation"
	"sheetgen/internal/errors"
	"sheetgen/internal/inspect"
)

// handleIndex serves the single page
func (s *Server) handleIndex(c *gin.Context) {
	example := s.sheets.Example()
	s.renderTemplate(c, "index.html", gin.H{
		"Example":        example,
		"ExampleColumns": strings.Join(example.Columns, ", "),
		"MaxRows":        generation.MaxRowCount,
	})
}

func (s *Server) handleExample(c *gin.Context) {
	c.JSON(http.StatusOK, s.sheets.Example())
}

func (s *Server) handleCreateSession(c *gin.Context) {
	id, err := s.sheets.CreateSession(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session_id": id})
}

func (s *Server) handlePopulate(c *gin.Context) {
	id, ok := s.sessionID(c)
	if !ok {
		return
	}
	var in app.PopulateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		s.respondError(c, errors.InvalidInput("request body must be a JSON object with a text field"))
		return
	}

	res, err := s.sheets.Populate(c.Request.Context(), id, in)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session_id": res.SessionID,
		"source":     res.Source,
		"summary":    res.Summary,
		"audit":      res.Audit,
		"previews":   inspect.Previews(res.Snapshot, inspect.PreviewRows),
	})
}

// handleImport accepts a multipart upload in the "file" field
func (s *Server) handleImport(c *gin.Context) {
	id, ok := s.sessionID(c)
	if !ok {
		return
	}
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		s.respondError(c, errors.InvalidInput("no file uploaded").WithField("file"))
		return
	}
	defer file.Close()
	s.logger.Info("Import %s (%d bytes) into session %s", header.Filename, header.Size, id)

	res, err := s.sheets.Import(c.Request.Context(), id, header.Filename, file)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session_id": res.SessionID,
		"source":     res.Source,
		"summary":    res.Summary,
		"previews":   inspect.Previews(res.Snapshot, inspect.PreviewRows),
	})
}

func (s *Server) handleSummary(c *gin.Context) {
	id, ok := s.sessionID(c)
	if !ok {
		return
	}
	summary, err := s.sheets.Summary(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// handleSummaryHTML renders the markdown report as an HTML fragment
func (s *Server) handleSummaryHTML(c *gin.Context) {
	id, ok := s.sessionID(c)
	if !ok {
		return
	}
	report, err := s.sheets.Report(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.renderTemplate(c, "summary.html", gin.H{"Report": markdownToHTML(report)})
}

// handleCells returns dense grids, or string previews with ?preview=N
func (s *Server) handleCells(c *gin.Context) {
	id, ok := s.sessionID(c)
	if !ok {
		return
	}
	if p := c.Query("preview"); p != "" {
		limit, err := strconv.Atoi(p)
		if err != nil || limit < 1 {
			s.respondError(c, errors.InvalidInput("preview must be a positive integer").WithField("preview"))
			return
		}
		previews, err := s.sheets.Previews(c.Request.Context(), id, limit)
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"previews": previews})
		return
	}

	grids, err := s.sheets.Cells(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sheets": grids})
}

func (s *Server) handleTable(c *gin.Context) {
	id, ok := s.sessionID(c)
	if !ok {
		return
	}
	hasHeaders := c.DefaultQuery("headers", "true") != "false"
	table, err := s.sheets.Table(c.Request.Context(), id, c.Query("sheet"), hasHeaders)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, table)
}

func (s *Server) handleStats(c *gin.Context) {
	id, ok := s.sessionID(c)
	if !ok {
		return
	}
	stats, err := s.sheets.Stats(c.Request.Context(), id, c.Query("sheet"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"columns": stats})
}

func (s *Server) handleExport(format excel.Format) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := s.sessionID(c)
		if !ok {
			return
		}
		var buf bytes.Buffer
		if err := s.sheets.Export(c.Request.Context(), id, format, &buf); err != nil {
			s.respondError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="workbook.`+string(format)+`"`)
		c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
	}
}

func (s *Server) handleClear(c *gin.Context) {
	id, ok := s.sessionID(c)
	if !ok {
		return
	}
	if err := s.sheets.Clear(c.Request.Context(), id); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleDeleteSession(c *gin.Context) {
	id, ok := s.sessionID(c)
	if !ok {
		return
	}
	if err := s.sheets.DeleteSession(c.Request.Context(), id); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) sessionID(c *gin.Context) (core.SessionID, bool) {
	id, err := core.ParseSessionID(c.Param("id"))
	if err != nil {
		s.respondError(c, errors.InvalidInput(err.Error()).WithField("id"))
		return "", false
	}
	return id, true
}

func (s *Server) respondError(c *gin.Context, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	} else {
		s.logger.Debug("%s %s rejected: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(status, errors.ToBody(err))
}
