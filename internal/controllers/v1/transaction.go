package v1

import (
	"net/http"

	"github.com/budgetloop/backend/internal/httputil"
	"github.com/budgetloop/backend/internal/models"
	ez_uuid "github.com/budgetloop/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"
)

// RegisterTransactionRoutes registers the routes for transactions with
// the RouterGroup that is passed.
func RegisterTransactionRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsTransactionList)
		r.GET("", GetTransactions)
		r.POST("", CreateTransactions)
	}
	{
		r.OPTIONS("/:id", OptionsTransactionDetail)
		r.GET("/:id", GetTransaction)
		r.PATCH("/:id", UpdateTransaction)
		r.DELETE("/:id", DeleteTransaction)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Router			/v1/transactions [options]
func OptionsTransactionList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/transactions/{id} [options]
func OptionsTransactionDetail(c *gin.Context) {
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

	_, err = getUserTransaction(userID, uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create transactions
// @Description	Creates new transactions. Transactions without an envelope are matched against the user's match rules and allocated to the first matching envelope of the budget.
// @Tags			Transactions
// @Accept			json
// @Produce		json
// @Success		201				{object}	TransactionCreateResponse
// @Failure		400				{object}	TransactionCreateResponse
// @Failure		404				{object}	TransactionCreateResponse
// @Failure		500				{object}	TransactionCreateResponse
// @Param			transactions	body		[]TransactionEditable	true	"Transactions"
// @Router			/v1/transactions [post]
func CreateTransactions(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, TransactionCreateResponse{Error: errString(err)})
		return
	}

	var editables []TransactionEditable
	err = httputil.BindData(c, &editables)
	if err != nil {
		c.JSON(status(err), TransactionCreateResponse{Error: errString(err)})
		return
	}

	// The final http status. Will be modified when errors occur
	currentStatus := http.StatusCreated
	r := TransactionCreateResponse{}

	for _, editable := range editables {
		_, err := getUserBudget(userID, editable.BudgetID)
		if err != nil {
			currentStatus = r.appendError(errBudgetNotOwned, currentStatus)
			continue
		}

		model := editable.model()

		// An explicitly allocated envelope must be part of the same budget
		if model.EnvelopeID != nil {
			envelope, err := getUserEnvelope(userID, *model.EnvelopeID)
			if err != nil || envelope.BudgetID != model.BudgetID {
				currentStatus = r.appendError(errEnvelopeNotInBudget, currentStatus)
				continue
			}
		} else {
			envelopeID, err := models.MatchEnvelope(userID, model.BudgetID, model.Name)
			if err != nil {
				currentStatus = r.appendError(err, currentStatus)
				continue
			}
			model.EnvelopeID = envelopeID
		}

		err = models.DB.Create(&model).Error
		if err != nil {
			currentStatus = r.appendError(err, currentStatus)
			continue
		}

		data := newTransaction(c, model)
		r.Data = append(r.Data, TransactionResponse{Data: &data})
	}

	c.JSON(currentStatus, r)
}

// @Summary		Get transactions
// @Description	Returns a list of transactions
// @Tags			Transactions
// @Produce		json
// @Success		200	{object}	TransactionListResponse
// @Failure		400	{object}	TransactionListResponse
// @Failure		500	{object}	TransactionListResponse
// @Router			/v1/transactions [get]
// @Param			name		query	string	false	"Filter by name"
// @Param			budget		query	string	false	"Filter by budget ID"
// @Param			envelope	query	string	false	"Filter by envelope ID"
// @Param			kind		query	string	false	"Filter by kind"
// @Param			category	query	string	false	"Filter by category"
// @Param			fromDate	query	string	false	"Transactions on this date and later"
// @Param			untilDate	query	string	false	"Transactions up to and including this date"
// @Param			amountLessOrEqual	query	string	false	"Amount less than or equal to this"
// @Param			amountMoreOrEqual	query	string	false	"Amount more than or equal to this"
// @Param			free		query	bool	false	"Only transactions not allocated to an envelope"
// @Param			offset		query	uint	false	"The offset of the first Transaction returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of Transactions to return. Defaults to 50."
func GetTransactions(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, TransactionListResponse{Error: errString(err)})
		return
	}

	var filter TransactionQueryFilter
	if err := c.Bind(&filter); err != nil {
		c.JSON(http.StatusBadRequest, TransactionListResponse{Error: errString(httputil.ErrInvalidQueryString)})
		return
	}

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	q := models.DB.
		Joins("JOIN budgets ON budgets.id = transactions.budget_id AND budgets.user_id = ?", userID).
		Order("transactions.date ASC, transactions.created_at ASC").
		Where(filter.model(), queryFields...)

	if filter.EnvelopeID != ez_uuid.Nil {
		q = q.Where("transactions.envelope_id = ?", filter.EnvelopeID.UUID)
	}

	if filter.Free {
		q = q.Where("transactions.envelope_id IS NULL")
	}

	if filter.Name != "" {
		q = q.Where("transactions.name LIKE ?", "%"+filter.Name+"%")
	} else if slices.Contains(setFields, "Name") {
		q = q.Where("transactions.name = ''")
	}

	if filter.Category != "" {
		q = q.Where("transactions.category LIKE ?", "%"+filter.Category+"%")
	}

	if !filter.FromDate.IsZero() {
		q = q.Where("transactions.date >= ?", filter.FromDate)
	}

	if !filter.UntilDate.IsZero() {
		q = q.Where("transactions.date <= ?", filter.UntilDate)
	}

	if !filter.AmountLessOrEqual.IsZero() {
		q = q.Where("transactions.amount <= ?", filter.AmountLessOrEqual)
	}

	if !filter.AmountMoreOrEqual.IsZero() {
		q = q.Where("transactions.amount >= ?", filter.AmountMoreOrEqual)
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 transactions and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var transactions []models.Transaction
	err = q.Find(&transactions).Error
	if err != nil {
		c.JSON(status(err), TransactionListResponse{Error: errString(err)})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		c.JSON(status(err), TransactionListResponse{Error: errString(err)})
		return
	}

	data := make([]Transaction, 0, len(transactions))
	for _, transaction := range transactions {
		data = append(data, newTransaction(c, transaction))
	}

	c.JSON(http.StatusOK, TransactionListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get transaction
// @Description	Returns a specific transaction
// @Tags			Transactions
// @Produce		json
// @Success		200	{object}	TransactionResponse
// @Failure		400	{object}	TransactionResponse
// @Failure		404	{object}	TransactionResponse
// @Failure		500	{object}	TransactionResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/transactions/{id} [get]
func GetTransaction(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, TransactionResponse{Error: errString(err)})
		return
	}

	var uri URIID
	err = c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), TransactionResponse{Error: errString(err)})
		return
	}

	model, err := getUserTransaction(userID, uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), TransactionResponse{Error: errString(err)})
		return
	}

	data := newTransaction(c, model)
	c.JSON(http.StatusOK, TransactionResponse{Data: &data})
}

// @Summary		Update transaction
// @Description	Updates an existing transaction. Only values to be updated need to be specified.
// @Tags			Transactions
// @Accept			json
// @Produce		json
// @Success		200			{object}	TransactionResponse
// @Failure		400			{object}	TransactionResponse
// @Failure		404			{object}	TransactionResponse
// @Failure		500			{object}	TransactionResponse
// @Param			id			path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			transaction	body		TransactionEditable	true	"Transaction"
// @Router			/v1/transactions/{id} [patch]
func UpdateTransaction(c *gin.Context) {
	userID, err := currentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, TransactionResponse{Error: errString(err)})
		return
	}

	var uri URIID
	err = c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), TransactionResponse{Error: errString(err)})
		return
	}

	model, err := getUserTransaction(userID, uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), TransactionResponse{Error: errString(err)})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, TransactionEditable{})
	if err != nil {
		c.JSON(status(err), TransactionResponse{Error: errString(err)})
		return
	}

	var data TransactionEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		c.JSON(status(err), TransactionResponse{Error: errString(err)})
		return
	}

	if slices.Contains(updateFields, "BudgetID") && data.BudgetID != model.BudgetID {
		_, err := getUserBudget(userID, data.BudgetID)
		if err != nil {
			c.JSON(status(errBudgetNotOwned), TransactionResponse{Error: errString(errBudgetNotOwned)})
			return
		}
	}

	// Allocating to an envelope requires it to be part of the transaction's budget
	if slices.Contains(updateFields, "EnvelopeID") && data.EnvelopeID != nil {
		budgetID := model.BudgetID
		if slices.Contains(updateFields, "BudgetID") {
			budgetID = data.BudgetID
		}

		envelope, err := getUserEnvelope(userID, *data.EnvelopeID)
		if err != nil || envelope.BudgetID != budgetID {
			c.JSON(status(errEnvelopeNotInBudget), TransactionResponse{Error: errString(errEnvelopeNotInBudget)})
			return
		}
	}

	err = models.DB.Model(&model).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		c.JSON(status(err), TransactionResponse{Error: errString(err)})
		return
	}

	apiResource := newTransaction(c, model)
	c.JSON(http.StatusOK, TransactionResponse{Data: &apiResource})
}

// @Summary		Delete transaction
// @Description	Deletes a transaction
// @Tags			Transactions
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/transactions/{id} [delete]
func DeleteTransaction(c *gin.Context) {
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

	model, err := getUserTransaction(userID, uri.ID.UUID)
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
