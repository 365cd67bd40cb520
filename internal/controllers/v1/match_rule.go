package v1

import (
	"net/http"

	"github.com/budgetloop/backend/internal/httputil"
	"github.com/budgetloop/backend/internal/models"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"
)

// RegisterMatchRuleRoutes registers the routes for match rules with
// the RouterGroup that is passed.
func RegisterMatchRuleRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsMatchRuleList)
		r.GET("", GetMatchRules)
		r.POST("", CreateMatchRules)
	}
	{
		r.OPTIONS("/:id", OptionsMatchRuleDetail)
		r.GET("/:id", GetMatchRule)
		r.PATCH("/:id", UpdateMatchRule)
		r.DELETE("/:id", DeleteMatchRule)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			MatchRules
// @Success		204
// @Router			/v1/match-rules [options]
func OptionsMatchRuleList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			MatchRules
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/match-rules/{id} [options]
func OptionsMatchRuleDetail(c *gin.Context) {
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

	_, err = getUserMatchRule(userID, uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create match rules
// @Description	Creates new match rules
// @Tags			MatchRules
// @Accept			json
// @Produce		json
// @Success		201		{object}	MatchRuleCreateResponse
// @Failure		400		{object}	MatchRuleCreateResponse
// @Failure		500		{object}	MatchRuleCreateResponse
// @Param			rules	body		[]MatchRuleEditable	true	"Match rules"
// @Router			/v1/match-rules [post]
func CreateMatchRules(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		c.JSON(status(err), MatchRuleCreateResponse{Error: errString(err)})
		return
	}

	var editables []MatchRuleEditable
	err = httputil.BindData(c, &editables)
	if err != nil {
		c.JSON(status(err), MatchRuleCreateResponse{Error: errString(err)})
		return
	}

	// The final http status. Will be modified when errors occur
	currentStatus := http.StatusCreated
	r := MatchRuleCreateResponse{}

	for _, editable := range editables {
		model := editable.model(userID)

		err := models.DB.Create(&model).Error
		if err != nil {
			currentStatus = r.appendError(err, currentStatus)
			continue
		}

		data := newMatchRule(c, model)
		r.Data = append(r.Data, MatchRuleResponse{Data: &data})
	}

	c.JSON(currentStatus, r)
}

// @Summary		Get match rules
// @Description	Returns a list of the user's match rules, ordered by priority
// @Tags			MatchRules
// @Produce		json
// @Success		200	{object}	MatchRuleListResponse
// @Failure		500	{object}	MatchRuleListResponse
// @Router			/v1/match-rules [get]
// @Param			match			query	string	false	"Filter by match pattern"
// @Param			envelopeName	query	string	false	"Filter by envelope name"
// @Param			offset			query	uint	false	"The offset of the first rule returned. Defaults to 0."
// @Param			limit			query	int		false	"Maximum number of rules to return. Defaults to 50."
func GetMatchRules(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		c.JSON(status(err), MatchRuleListResponse{Error: errString(err)})
		return
	}

	var filter MatchRuleQueryFilter
	if err := c.Bind(&filter); err != nil {
		c.JSON(http.StatusBadRequest, MatchRuleListResponse{Error: errString(httputil.ErrInvalidQueryString)})
		return
	}

	_, setFields := httputil.GetURLFields(c.Request.URL, filter)

	q := models.DB.
		Order("match_rules.priority ASC, match_rules.match ASC").
		Where(&models.MatchRule{UserID: userID})

	if filter.Match != "" {
		q = q.Where("match_rules.match LIKE ?", "%"+filter.Match+"%")
	}

	if filter.EnvelopeName != "" {
		q = q.Where("match_rules.envelope_name LIKE ?", "%"+filter.EnvelopeName+"%")
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 rules and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var rules []models.MatchRule
	err = q.Find(&rules).Error
	if err != nil {
		c.JSON(status(err), MatchRuleListResponse{Error: errString(err)})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		c.JSON(status(err), MatchRuleListResponse{Error: errString(err)})
		return
	}

	data := make([]MatchRule, 0, len(rules))
	for _, rule := range rules {
		data = append(data, newMatchRule(c, rule))
	}

	c.JSON(http.StatusOK, MatchRuleListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get match rule
// @Description	Returns a specific match rule
// @Tags			MatchRules
// @Produce		json
// @Success		200	{object}	MatchRuleResponse
// @Failure		400	{object}	MatchRuleResponse
// @Failure		404	{object}	MatchRuleResponse
// @Failure		500	{object}	MatchRuleResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/match-rules/{id} [get]
func GetMatchRule(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		c.JSON(status(err), MatchRuleResponse{Error: errString(err)})
		return
	}

	var uri URIID
	err = c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), MatchRuleResponse{Error: errString(err)})
		return
	}

	model, err := getUserMatchRule(userID, uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), MatchRuleResponse{Error: errString(err)})
		return
	}

	data := newMatchRule(c, model)
	c.JSON(http.StatusOK, MatchRuleResponse{Data: &data})
}

// @Summary		Update match rule
// @Description	Updates an existing match rule. Only values to be updated need to be specified.
// @Tags			MatchRules
// @Accept			json
// @Produce		json
// @Success		200		{object}	MatchRuleResponse
// @Failure		400		{object}	MatchRuleResponse
// @Failure		404		{object}	MatchRuleResponse
// @Failure		500		{object}	MatchRuleResponse
// @Param			id		path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			rule	body		MatchRuleEditable	true	"Match rule"
// @Router			/v1/match-rules/{id} [patch]
func UpdateMatchRule(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		c.JSON(status(err), MatchRuleResponse{Error: errString(err)})
		return
	}

	var uri URIID
	err = c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), MatchRuleResponse{Error: errString(err)})
		return
	}

	model, err := getUserMatchRule(userID, uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), MatchRuleResponse{Error: errString(err)})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, MatchRuleEditable{})
	if err != nil {
		c.JSON(status(err), MatchRuleResponse{Error: errString(err)})
		return
	}

	var data MatchRuleEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		c.JSON(status(err), MatchRuleResponse{Error: errString(err)})
		return
	}

	err = models.DB.Model(&model).Select("", updateFields...).Updates(data.model(userID)).Error
	if err != nil {
		c.JSON(status(err), MatchRuleResponse{Error: errString(err)})
		return
	}

	apiResource := newMatchRule(c, model)
	c.JSON(http.StatusOK, MatchRuleResponse{Data: &apiResource})
}

// @Summary		Delete match rule
// @Description	Deletes a match rule
// @Tags			MatchRules
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/match-rules/{id} [delete]
func DeleteMatchRule(c *gin.Context) {
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

	model, err := getUserMatchRule(userID, uri.ID.UUID)
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
