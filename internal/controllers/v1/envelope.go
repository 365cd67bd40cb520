package v1

import (
	"net/http"

	"github.com/budgetloop/backend/internal/httputil"
	"github.com/budgetloop/backend/internal/models"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"
)

// RegisterEnvelopeRoutes registers the routes for envelopes with
// the RouterGroup that is passed.
func RegisterEnvelopeRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsEnvelopeList)
		r.GET("", GetEnvelopes)
		r.POST("", CreateEnvelopes)
	}
	{
		r.OPTIONS("/:id", OptionsEnvelopeDetail)
		r.GET("/:id", GetEnvelope)
		r.PATCH("/:id", UpdateEnvelope)
		r.DELETE("/:id", DeleteEnvelope)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Envelopes
// @Success		204
// @Router			/v1/envelopes [options]
func OptionsEnvelopeList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Envelopes
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path	URIID	true	"ignored, but added to have IDs documented"
// @Router			/v1/envelopes/{id} [options]
func OptionsEnvelopeDetail(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, httpError{Error: err.Error()})
		return
	}

	var uri URIID
	err = c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	_, err = getUserEnvelope(userID, uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create envelopes
// @Description	Creates new envelopes
// @Tags			Envelopes
// @Produce		json
// @Success		201		{object}	EnvelopeCreateResponse
// @Failure		400		{object}	EnvelopeCreateResponse
// @Failure		404		{object}	EnvelopeCreateResponse
// @Failure		500		{object}	EnvelopeCreateResponse
// @Param			envelopes	body		[]EnvelopeEditable	true	"Envelopes"
// @Router			/v1/envelopes [post]
func CreateEnvelopes(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, EnvelopeCreateResponse{Error: errString(err)})
		return
	}

	var editables []EnvelopeEditable
	err = httputil.BindData(c, &editables)
	if err != nil {
		c.JSON(status(err), EnvelopeCreateResponse{Error: errString(err)})
		return
	}

	// The final http status. Will be modified when errors occur
	currentStatus := http.StatusCreated
	r := EnvelopeCreateResponse{}

	for _, editable := range editables {
		// Only allow creating envelopes in budgets the user owns
		_, err := getUserBudget(userID, editable.BudgetID)
		if err != nil {
			currentStatus = r.appendError(errBudgetNotOwned, currentStatus)
			continue
		}

		model := editable.model()
		err = models.DB.Create(&model).Error
		if err != nil {
			currentStatus = r.appendError(err, currentStatus)
			continue
		}

		data := newEnvelope(c, model)
		r.Data = append(r.Data, EnvelopeResponse{Data: &data})
	}

	c.JSON(currentStatus, r)
}

// @Summary		Get envelopes
// @Description	Returns a list of envelopes
// @Tags			Envelopes
// @Produce		json
// @Success		200	{object}	EnvelopeListResponse
// @Failure		400	{object}	EnvelopeListResponse
// @Failure		500	{object}	EnvelopeListResponse
// @Router			/v1/envelopes [get]
// @Param			name				query	string	false	"Filter by name"
// @Param			budget				query	string	false	"Filter by budget ID"
// @Param			kind				query	string	false	"Filter by kind"
// @Param			recurrence			query	string	false	"Filter by recurrence"
// @Param			isManuallyAdjusted	query	bool	false	"Is the envelope locked against propagation?"
// @Param			offset				query	uint	false	"The offset of the first Envelope returned. Defaults to 0."
// @Param			limit				query	int	false	"Maximum number of Envelopes to return. Defaults to 50."
func GetEnvelopes(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, EnvelopeListResponse{Error: errString(err)})
		return
	}

	var filter EnvelopeQueryFilter
	if err := c.Bind(&filter); err != nil {
		c.JSON(http.StatusBadRequest, EnvelopeListResponse{Error: errString(httputil.ErrInvalidQueryString)})
		return
	}

	// Get the fields set in the filter
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	model := filter.model()

	q := models.DB.
		Joins("JOIN budgets ON budgets.id = envelopes.budget_id AND budgets.user_id = ?", userID).
		Order("envelopes.created_at ASC").
		Where(&model, queryFields...)

	if filter.Name != "" {
		q = q.Where("envelopes.name LIKE ?", "%"+filter.Name+"%")
	} else if slices.Contains(setFields, "Name") {
		q = q.Where("envelopes.name = ''")
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 envelopes and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var envelopes []models.Envelope
	err = q.Find(&envelopes).Error
	if err != nil {
		c.JSON(status(err), EnvelopeListResponse{Error: errString(err)})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		c.JSON(status(err), EnvelopeListResponse{Error: errString(err)})
		return
	}

	data := make([]Envelope, 0, len(envelopes))
	for _, envelope := range envelopes {
		data = append(data, newEnvelope(c, envelope))
	}

	c.JSON(http.StatusOK, EnvelopeListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get envelope
// @Description	Returns a specific envelope
// @Tags			Envelopes
// @Produce		json
// @Success		200	{object}	EnvelopeResponse
// @Failure		400	{object}	EnvelopeResponse
// @Failure		404	{object}	EnvelopeResponse
// @Failure		500	{object}	EnvelopeResponse
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/envelopes/{id} [get]
func GetEnvelope(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, EnvelopeResponse{Error: errString(err)})
		return
	}

	var uri URIID
	err = c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), EnvelopeResponse{Error: errString(err)})
		return
	}

	model, err := getUserEnvelope(userID, uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), EnvelopeResponse{Error: errString(err)})
		return
	}

	data := newEnvelope(c, model)
	c.JSON(http.StatusOK, EnvelopeResponse{Data: &data})
}

// @Summary		Update envelope
// @Description	Updates an existing envelope. Only values to be updated need to be specified. Rollover lines cannot be updated.
// @Tags			Envelopes
// @Accept			json
// @Produce		json
// @Success		200		{object}	EnvelopeResponse
// @Failure		400		{object}	EnvelopeResponse
// @Failure		404		{object}	EnvelopeResponse
// @Failure		500		{object}	EnvelopeResponse
// @Param			id			path		URIID			true	"ID formatted as string"
// @Param			envelope	body		EnvelopeEditable	true	"Envelope"
// @Router			/v1/envelopes/{id} [patch]
func UpdateEnvelope(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, EnvelopeResponse{Error: errString(err)})
		return
	}

	var uri URIID
	err = c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), EnvelopeResponse{Error: errString(err)})
		return
	}

	model, err := getUserEnvelope(userID, uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), EnvelopeResponse{Error: errString(err)})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, EnvelopeEditable{})
	if err != nil {
		c.JSON(status(err), EnvelopeResponse{Error: errString(err)})
		return
	}

	var data EnvelopeEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		c.JSON(status(err), EnvelopeResponse{Error: errString(err)})
		return
	}

	// Moving an envelope to another budget requires owning the target, too
	if slices.Contains(updateFields, "BudgetID") && data.BudgetID != model.BudgetID {
		_, err := getUserBudget(userID, data.BudgetID)
		if err != nil {
			c.JSON(status(errBudgetNotOwned), EnvelopeResponse{Error: errString(errBudgetNotOwned)})
			return
		}
	}

	err = models.DB.Model(&model).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		c.JSON(status(err), EnvelopeResponse{Error: errString(err)})
		return
	}

	apiResource := newEnvelope(c, model)
	c.JSON(http.StatusOK, EnvelopeResponse{Data: &apiResource})
}

// @Summary		Delete envelope
// @Description	Deletes an envelope. Rollover lines cannot be deleted.
// @Tags			Envelopes
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/envelopes/{id} [delete]
func DeleteEnvelope(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, httpError{Error: err.Error()})
		return
	}

	var uri URIID
	err = c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	model, err := getUserEnvelope(userID, uri.ID.UUID)
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
