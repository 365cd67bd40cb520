package v1

import (
	"net/http"

	"github.com/budgetloop/backend/internal/httputil"
	"github.com/budgetloop/backend/internal/models"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// RegisterSavingsGoalRoutes registers the routes for savings goals
// with the RouterGroup that is passed.
func RegisterSavingsGoalRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsSavingsGoalList)
		r.GET("", GetSavingsGoals)
		r.POST("", CreateSavingsGoals)
	}
	{
		r.OPTIONS("/:id", OptionsSavingsGoalDetail)
		r.GET("/:id", GetSavingsGoal)
		r.PATCH("/:id", UpdateSavingsGoal)
		r.DELETE("/:id", DeleteSavingsGoal)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			SavingsGoals
// @Success		204
// @Router			/v1/savings-goals [options]
func OptionsSavingsGoalList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			SavingsGoals
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/savings-goals/{id} [options]
func OptionsSavingsGoalDetail(c *gin.Context) {
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

	_, err = getUserSavingsGoal(userID, uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create savings goals
// @Description	Creates new savings goals
// @Tags			SavingsGoals
// @Accept			json
// @Produce		json
// @Success		201		{object}	SavingsGoalCreateResponse
// @Failure		400		{object}	SavingsGoalCreateResponse
// @Failure		500		{object}	SavingsGoalCreateResponse
// @Param			goals	body		[]SavingsGoalEditable	true	"Savings goals"
// @Router			/v1/savings-goals [post]
func CreateSavingsGoals(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		c.JSON(status(err), SavingsGoalCreateResponse{Error: errString(err)})
		return
	}

	var editables []SavingsGoalEditable
	err = httputil.BindData(c, &editables)
	if err != nil {
		c.JSON(status(err), SavingsGoalCreateResponse{Error: errString(err)})
		return
	}

	// The final http status. Will be modified when errors occur
	currentStatus := http.StatusCreated
	r := SavingsGoalCreateResponse{}

	for _, editable := range editables {
		model := editable.model(userID)

		err := models.DB.Create(&model).Error
		if err != nil {
			currentStatus = r.appendError(err, currentStatus)
			continue
		}

		data, err := newSavingsGoal(c, model)
		if err != nil {
			currentStatus = r.appendError(err, currentStatus)
			continue
		}

		r.Data = append(r.Data, SavingsGoalResponse{Data: &data})
	}

	c.JSON(currentStatus, r)
}

// @Summary		Get savings goals
// @Description	Returns a list of the user's savings goals with their progress
// @Tags			SavingsGoals
// @Produce		json
// @Success		200	{object}	SavingsGoalListResponse
// @Failure		500	{object}	SavingsGoalListResponse
// @Router			/v1/savings-goals [get]
// @Param			name		query	string	false	"Filter by name"
// @Param			archived	query	bool	false	"Is the goal archived?"
// @Param			offset		query	uint	false	"The offset of the first goal returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of goals to return. Defaults to 50."
func GetSavingsGoals(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		c.JSON(status(err), SavingsGoalListResponse{Error: errString(err)})
		return
	}

	var filter SavingsGoalQueryFilter
	if err := c.Bind(&filter); err != nil {
		c.JSON(http.StatusBadRequest, SavingsGoalListResponse{Error: errString(httputil.ErrInvalidQueryString)})
		return
	}

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	q := models.DB.
		Order("savings_goals.target_month ASC, savings_goals.name ASC").
		Where(&models.SavingsGoal{UserID: userID}).
		Where(filter.model(), queryFields...)

	if filter.Name != "" {
		q = q.Where("savings_goals.name LIKE ?", "%"+filter.Name+"%")
	} else if slices.Contains(setFields, "Name") {
		q = q.Where("savings_goals.name = ''")
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 goals and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var goals []models.SavingsGoal
	err = q.Find(&goals).Error
	if err != nil {
		c.JSON(status(err), SavingsGoalListResponse{Error: errString(err)})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		c.JSON(status(err), SavingsGoalListResponse{Error: errString(err)})
		return
	}

	data := make([]SavingsGoal, 0, len(goals))
	for _, goal := range goals {
		apiResource, err := newSavingsGoal(c, goal)
		if err != nil {
			c.JSON(status(err), SavingsGoalListResponse{Error: errString(err)})
			return
		}

		data = append(data, apiResource)
	}

	c.JSON(http.StatusOK, SavingsGoalListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get savings goal
// @Description	Returns a specific savings goal with its progress
// @Tags			SavingsGoals
// @Produce		json
// @Success		200	{object}	SavingsGoalResponse
// @Failure		400	{object}	SavingsGoalResponse
// @Failure		404	{object}	SavingsGoalResponse
// @Failure		500	{object}	SavingsGoalResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/savings-goals/{id} [get]
func GetSavingsGoal(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		c.JSON(status(err), SavingsGoalResponse{Error: errString(err)})
		return
	}

	var uri URIID
	err = c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), SavingsGoalResponse{Error: errString(err)})
		return
	}

	model, err := getUserSavingsGoal(userID, uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), SavingsGoalResponse{Error: errString(err)})
		return
	}

	data, err := newSavingsGoal(c, model)
	if err != nil {
		c.JSON(status(err), SavingsGoalResponse{Error: errString(err)})
		return
	}

	c.JSON(http.StatusOK, SavingsGoalResponse{Data: &data})
}

// @Summary		Update savings goal
// @Description	Updates an existing savings goal. Only values to be updated need to be specified.
// @Tags			SavingsGoals
// @Accept			json
// @Produce		json
// @Success		200		{object}	SavingsGoalResponse
// @Failure		400		{object}	SavingsGoalResponse
// @Failure		404		{object}	SavingsGoalResponse
// @Failure		500		{object}	SavingsGoalResponse
// @Param			id		path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			goal	body		SavingsGoalEditable	true	"Savings goal"
// @Router			/v1/savings-goals/{id} [patch]
func UpdateSavingsGoal(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		c.JSON(status(err), SavingsGoalResponse{Error: errString(err)})
		return
	}

	var uri URIID
	err = c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), SavingsGoalResponse{Error: errString(err)})
		return
	}

	model, err := getUserSavingsGoal(userID, uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), SavingsGoalResponse{Error: errString(err)})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, SavingsGoalEditable{})
	if err != nil {
		c.JSON(status(err), SavingsGoalResponse{Error: errString(err)})
		return
	}

	var data SavingsGoalEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		c.JSON(status(err), SavingsGoalResponse{Error: errString(err)})
		return
	}

	err = models.DB.Model(&model).Select("", updateFields...).Updates(data.model(userID)).Error
	if err != nil {
		c.JSON(status(err), SavingsGoalResponse{Error: errString(err)})
		return
	}

	apiResource, err := newSavingsGoal(c, model)
	if err != nil {
		c.JSON(status(err), SavingsGoalResponse{Error: errString(err)})
		return
	}

	c.JSON(http.StatusOK, SavingsGoalResponse{Data: &apiResource})
}

// @Summary		Delete savings goal
// @Description	Deletes a savings goal. Envelopes and template lines referencing it are unlinked.
// @Tags			SavingsGoals
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/savings-goals/{id} [delete]
func DeleteSavingsGoal(c *gin.Context) {
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

	model, err := getUserSavingsGoal(userID, uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		// The model hooks would run against the empty receiver
		bulk := tx.Session(&gorm.Session{SkipHooks: true})

		err := bulk.Model(&models.Envelope{}).
			Where("savings_goal_id = ?", model.ID).
			Update("savings_goal_id", nil).Error
		if err != nil {
			return err
		}

		err = bulk.Model(&models.TemplateLine{}).
			Where("savings_goal_id = ?", model.ID).
			Update("savings_goal_id", nil).Error
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
