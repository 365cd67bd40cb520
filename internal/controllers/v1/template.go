package v1

import (
	"net/http"

	"github.com/budgetloop/backend/internal/httputil"
	"github.com/budgetloop/backend/internal/models"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// RegisterTemplateRoutes registers the routes for templates with
// the RouterGroup that is passed.
func RegisterTemplateRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsTemplateList)
		r.GET("", GetTemplates)
		r.POST("", CreateTemplates)
	}
	{
		r.OPTIONS("/:id", OptionsTemplateDetail)
		r.GET("/:id", GetTemplate)
		r.PATCH("/:id", UpdateTemplate)
		r.DELETE("/:id", DeleteTemplate)
	}
	{
		r.OPTIONS("/:id/lines/apply", OptionsTemplateApply)
		r.POST("/:id/lines/apply", ApplyTemplateLines)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Templates
// @Success		204
// @Router			/v1/templates [options]
func OptionsTemplateList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Templates
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/templates/{id} [options]
func OptionsTemplateDetail(c *gin.Context) {
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

	_, err = getUserTemplate(userID, uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Templates
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/templates/{id}/lines/apply [options]
func OptionsTemplateApply(c *gin.Context) {
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

	_, err = getUserTemplate(userID, uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	httputil.OptionsPost(c)
}

// @Summary		Create templates
// @Description	Creates new templates
// @Tags			Templates
// @Accept			json
// @Produce		json
// @Success		201			{object}	TemplateCreateResponse
// @Failure		400			{object}	TemplateCreateResponse
// @Failure		500			{object}	TemplateCreateResponse
// @Param			templates	body		[]TemplateEditable	true	"Templates"
// @Router			/v1/templates [post]
func CreateTemplates(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		c.JSON(status(err), TemplateCreateResponse{Error: errString(err)})
		return
	}

	var editables []TemplateEditable
	err = httputil.BindData(c, &editables)
	if err != nil {
		c.JSON(status(err), TemplateCreateResponse{Error: errString(err)})
		return
	}

	// The final http status. Will be modified when errors occur
	currentStatus := http.StatusCreated
	r := TemplateCreateResponse{}

	for _, editable := range editables {
		model := editable.model(userID)

		err := models.DB.Create(&model).Error
		if err != nil {
			currentStatus = r.appendError(err, currentStatus)
			continue
		}

		data := newTemplate(c, model)
		r.Data = append(r.Data, TemplateResponse{Data: &data})
	}

	c.JSON(currentStatus, r)
}

// @Summary		Get templates
// @Description	Returns a list of the user's templates
// @Tags			Templates
// @Produce		json
// @Success		200	{object}	TemplateListResponse
// @Failure		500	{object}	TemplateListResponse
// @Router			/v1/templates [get]
// @Param			name	query	string	false	"Filter by name"
// @Param			note	query	string	false	"Filter by note"
// @Param			offset	query	uint	false	"The offset of the first Template returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of Templates to return. Defaults to 50."
func GetTemplates(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		c.JSON(status(err), TemplateListResponse{Error: errString(err)})
		return
	}

	var filter TemplateQueryFilter
	if err := c.Bind(&filter); err != nil {
		c.JSON(http.StatusBadRequest, TemplateListResponse{Error: errString(httputil.ErrInvalidQueryString)})
		return
	}

	_, setFields := httputil.GetURLFields(c.Request.URL, filter)

	q := models.DB.
		Order("templates.name ASC").
		Where(&models.Template{UserID: userID})

	if filter.Name != "" {
		q = q.Where("templates.name LIKE ?", "%"+filter.Name+"%")
	} else if slices.Contains(setFields, "Name") {
		q = q.Where("templates.name = ''")
	}

	if filter.Note != "" {
		q = q.Where("templates.note LIKE ?", "%"+filter.Note+"%")
	} else if slices.Contains(setFields, "Note") {
		q = q.Where("templates.note = ''")
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 templates and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var templates []models.Template
	err = q.Find(&templates).Error
	if err != nil {
		c.JSON(status(err), TemplateListResponse{Error: errString(err)})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		c.JSON(status(err), TemplateListResponse{Error: errString(err)})
		return
	}

	data := make([]Template, 0, len(templates))
	for _, template := range templates {
		data = append(data, newTemplate(c, template))
	}

	c.JSON(http.StatusOK, TemplateListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get template
// @Description	Returns a specific template
// @Tags			Templates
// @Produce		json
// @Success		200	{object}	TemplateResponse
// @Failure		400	{object}	TemplateResponse
// @Failure		404	{object}	TemplateResponse
// @Failure		500	{object}	TemplateResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/templates/{id} [get]
func GetTemplate(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		c.JSON(status(err), TemplateResponse{Error: errString(err)})
		return
	}

	var uri URIID
	err = c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), TemplateResponse{Error: errString(err)})
		return
	}

	model, err := getUserTemplate(userID, uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), TemplateResponse{Error: errString(err)})
		return
	}

	data := newTemplate(c, model)
	c.JSON(http.StatusOK, TemplateResponse{Data: &data})
}

// @Summary		Update template
// @Description	Updates an existing template. Only values to be updated need to be specified.
// @Tags			Templates
// @Accept			json
// @Produce		json
// @Success		200			{object}	TemplateResponse
// @Failure		400			{object}	TemplateResponse
// @Failure		404			{object}	TemplateResponse
// @Failure		500			{object}	TemplateResponse
// @Param			id			path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			template	body		TemplateEditable	true	"Template"
// @Router			/v1/templates/{id} [patch]
func UpdateTemplate(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		c.JSON(status(err), TemplateResponse{Error: errString(err)})
		return
	}

	var uri URIID
	err = c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), TemplateResponse{Error: errString(err)})
		return
	}

	model, err := getUserTemplate(userID, uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), TemplateResponse{Error: errString(err)})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, TemplateEditable{})
	if err != nil {
		c.JSON(status(err), TemplateResponse{Error: errString(err)})
		return
	}

	var data TemplateEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		c.JSON(status(err), TemplateResponse{Error: errString(err)})
		return
	}

	err = models.DB.Model(&model).Select("", updateFields...).Updates(data.model(userID)).Error
	if err != nil {
		c.JSON(status(err), TemplateResponse{Error: errString(err)})
		return
	}

	apiResource := newTemplate(c, model)
	c.JSON(http.StatusOK, TemplateResponse{Data: &apiResource})
}

// @Summary		Delete template
// @Description	Deletes a template and its lines. Budgets already instantiated from the template keep their envelopes.
// @Tags			Templates
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/templates/{id} [delete]
func DeleteTemplate(c *gin.Context) {
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

	model, err := getUserTemplate(userID, uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		// The model hooks would run against the empty receiver
		bulk := tx.Session(&gorm.Session{SkipHooks: true})

		err := bulk.Where("template_id = ?", model.ID).Delete(&models.TemplateLine{}).Error
		if err != nil {
			return err
		}

		// Unlink budgets instead of cascading into them
		err = bulk.Model(&models.Budget{}).
			Where("template_id = ?", model.ID).
			Update("template_id", nil).Error
		if err != nil {
			return err
		}

		return tx.Delete(&model).Error
	})
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// @Summary		Apply template line operations
// @Description	Applies a batch of create, update and delete operations to the lines of a template. With propagateToBudgets, the operations are mirrored into every future budget instantiated from the template in one atomic write, skipping manually adjusted envelopes, and the ending balances of the touched budgets are recalculated.
// @Tags			Templates
// @Accept			json
// @Produce		json
// @Success		200			{object}	TemplateApplyResponse
// @Failure		400			{object}	TemplateApplyResponse
// @Failure		404			{object}	TemplateApplyResponse
// @Failure		500			{object}	TemplateApplyResponse
// @Param			id			path		URIID					true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			operations	body		TemplateApplyEditable	true	"Operations"
// @Router			/v1/templates/{id}/lines/apply [post]
func ApplyTemplateLines(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		c.JSON(status(err), TemplateApplyResponse{Error: errString(err)})
		return
	}

	var uri URIID
	err = c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), TemplateApplyResponse{Error: errString(err)})
		return
	}

	var editable TemplateApplyEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		c.JSON(status(err), TemplateApplyResponse{Error: errString(err)})
		return
	}

	summary, err := propagationEngine().Apply(userID, uri.ID.UUID, editable.Operations, editable.PropagateToBudgets)
	if err != nil {
		c.JSON(status(err), TemplateApplyResponse{Error: errString(err)})
		return
	}

	c.JSON(http.StatusOK, TemplateApplyResponse{Data: &summary})
}
