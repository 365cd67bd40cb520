package v1

import (
	"net/http"

	"github.com/budgetloop/backend/internal/httputil"
	"github.com/budgetloop/backend/internal/models"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"
)

// RegisterTemplateLineRoutes registers the routes for template lines
// with the RouterGroup that is passed.
//
// Writes via these routes touch the template only. Mirroring changes
// into budgets goes through the apply endpoint of the template.
func RegisterTemplateLineRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsTemplateLineList)
		r.GET("", GetTemplateLines)
		r.POST("", CreateTemplateLines)
	}
	{
		r.OPTIONS("/:id", OptionsTemplateLineDetail)
		r.GET("/:id", GetTemplateLine)
		r.PATCH("/:id", UpdateTemplateLine)
		r.DELETE("/:id", DeleteTemplateLine)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			TemplateLines
// @Success		204
// @Router			/v1/template-lines [options]
func OptionsTemplateLineList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			TemplateLines
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/template-lines/{id} [options]
func OptionsTemplateLineDetail(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	var uri URIID
	err = c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	_, err = getUserTemplateLine(userID, uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create template lines
// @Description	Creates new template lines. Budgets already instantiated from the template are not changed.
// @Tags			TemplateLines
// @Accept			json
// @Produce		json
// @Success		201		{object}	TemplateLineCreateResponse
// @Failure		400		{object}	TemplateLineCreateResponse
// @Failure		404		{object}	TemplateLineCreateResponse
// @Failure		500		{object}	TemplateLineCreateResponse
// @Param			lines	body		[]TemplateLineEditable	true	"Template lines"
// @Router			/v1/template-lines [post]
func CreateTemplateLines(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		c.JSON(status(err), TemplateLineCreateResponse{Error: errString(err)})
		return
	}

	var editables []TemplateLineEditable
	err = httputil.BindData(c, &editables)
	if err != nil {
		c.JSON(status(err), TemplateLineCreateResponse{Error: errString(err)})
		return
	}

	// The final http status. Will be modified when errors occur
	currentStatus := http.StatusCreated
	r := TemplateLineCreateResponse{}

	for _, editable := range editables {
		_, err := getUserTemplate(userID, editable.TemplateID)
		if err != nil {
			currentStatus = r.appendError(errTemplateNotOwned, currentStatus)
			continue
		}

		model := editable.model()
		err = models.DB.Create(&model).Error
		if err != nil {
			currentStatus = r.appendError(err, currentStatus)
			continue
		}

		data := newTemplateLine(c, model)
		r.Data = append(r.Data, TemplateLineResponse{Data: &data})
	}

	c.JSON(currentStatus, r)
}

// @Summary		Get template lines
// @Description	Returns a list of template lines
// @Tags			TemplateLines
// @Produce		json
// @Success		200	{object}	TemplateLineListResponse
// @Failure		400	{object}	TemplateLineListResponse
// @Failure		500	{object}	TemplateLineListResponse
// @Router			/v1/template-lines [get]
// @Param			name		query	string	false	"Filter by name"
// @Param			template	query	string	false	"Filter by template ID"
// @Param			kind		query	string	false	"Filter by kind"
// @Param			recurrence	query	string	false	"Filter by recurrence"
// @Param			offset		query	uint	false	"The offset of the first line returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of lines to return. Defaults to 50."
func GetTemplateLines(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		c.JSON(status(err), TemplateLineListResponse{Error: errString(err)})
		return
	}

	var filter TemplateLineQueryFilter
	if err := c.Bind(&filter); err != nil {
		c.JSON(http.StatusBadRequest, TemplateLineListResponse{Error: errString(httputil.ErrInvalidQueryString)})
		return
	}

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	q := models.DB.
		Joins("JOIN templates ON templates.id = template_lines.template_id AND templates.user_id = ?", userID).
		Order("template_lines.created_at ASC").
		Where(filter.model(), queryFields...)

	if filter.Name != "" {
		q = q.Where("template_lines.name LIKE ?", "%"+filter.Name+"%")
	} else if slices.Contains(setFields, "Name") {
		q = q.Where("template_lines.name = ''")
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 lines and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var lines []models.TemplateLine
	err = q.Find(&lines).Error
	if err != nil {
		c.JSON(status(err), TemplateLineListResponse{Error: errString(err)})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		c.JSON(status(err), TemplateLineListResponse{Error: errString(err)})
		return
	}

	data := make([]TemplateLine, 0, len(lines))
	for _, line := range lines {
		data = append(data, newTemplateLine(c, line))
	}

	c.JSON(http.StatusOK, TemplateLineListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get template line
// @Description	Returns a specific template line
// @Tags			TemplateLines
// @Produce		json
// @Success		200	{object}	TemplateLineResponse
// @Failure		400	{object}	TemplateLineResponse
// @Failure		404	{object}	TemplateLineResponse
// @Failure		500	{object}	TemplateLineResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/template-lines/{id} [get]
func GetTemplateLine(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		c.JSON(status(err), TemplateLineResponse{Error: errString(err)})
		return
	}

	var uri URIID
	err = c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), TemplateLineResponse{Error: errString(err)})
		return
	}

	model, err := getUserTemplateLine(userID, uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), TemplateLineResponse{Error: errString(err)})
		return
	}

	data := newTemplateLine(c, model)
	c.JSON(http.StatusOK, TemplateLineResponse{Data: &data})
}

// @Summary		Update template line
// @Description	Updates an existing template line. Only values to be updated need to be specified. Budgets already instantiated from the template are not changed.
// @Tags			TemplateLines
// @Accept			json
// @Produce		json
// @Success		200		{object}	TemplateLineResponse
// @Failure		400		{object}	TemplateLineResponse
// @Failure		404		{object}	TemplateLineResponse
// @Failure		500		{object}	TemplateLineResponse
// @Param			id		path		URIID					true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			line	body		TemplateLineEditable	true	"Template line"
// @Router			/v1/template-lines/{id} [patch]
func UpdateTemplateLine(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		c.JSON(status(err), TemplateLineResponse{Error: errString(err)})
		return
	}

	var uri URIID
	err = c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), TemplateLineResponse{Error: errString(err)})
		return
	}

	model, err := getUserTemplateLine(userID, uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), TemplateLineResponse{Error: errString(err)})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, TemplateLineEditable{})
	if err != nil {
		c.JSON(status(err), TemplateLineResponse{Error: errString(err)})
		return
	}

	var data TemplateLineEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		c.JSON(status(err), TemplateLineResponse{Error: errString(err)})
		return
	}

	if slices.Contains(updateFields, "TemplateID") && data.TemplateID != model.TemplateID {
		_, err := getUserTemplate(userID, data.TemplateID)
		if err != nil {
			c.JSON(status(errTemplateNotOwned), TemplateLineResponse{Error: errString(errTemplateNotOwned)})
			return
		}
	}

	err = models.DB.Model(&model).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		c.JSON(status(err), TemplateLineResponse{Error: errString(err)})
		return
	}

	apiResource := newTemplateLine(c, model)
	c.JSON(http.StatusOK, TemplateLineResponse{Data: &apiResource})
}

// @Summary		Delete template line
// @Description	Deletes a template line. Budgets already instantiated from the template are not changed.
// @Tags			TemplateLines
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/template-lines/{id} [delete]
func DeleteTemplateLine(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	var uri URIID
	err = c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	model, err := getUserTemplateLine(userID, uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = models.DB.Delete(&model).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
