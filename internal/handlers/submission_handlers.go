package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/storefront-golang/internal/models"
	"github.com/01moynul/storefront-golang/internal/services"
)

// --- Reviews ---

// ReviewForm is the handler for GET /review/new/:product_id.
func (h *Handlers) ReviewForm(c *gin.Context) {
	productID, ok := paramID(c, "product_id")
	if !ok {
		return
	}

	detail, err := h.Catalog.ProductDetail(c.Request.Context(), productID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, formContext(c, "review", gin.H{
		"fields":  []string{"rating", "review_text"},
		"ratings": []int{1, 2, 3, 4, 5},
		"product": detail.Product,
	}))
}

// SubmitReview is the handler for POST /review/new/:product_id.
func (h *Handlers) SubmitReview(c *gin.Context) {
	productID, ok := paramID(c, "product_id")
	if !ok {
		return
	}

	var input services.ReviewInput
	if err := bind(c, &input); err != nil {
		h.respondError(c, err)
		return
	}

	if _, err := h.Submissions.SubmitReview(c.Request.Context(), currentUserID(c), productID, input); err != nil {
		h.respondError(c, err)
		return
	}
	redirectWithFlash(c, "/products/"+strconv.FormatInt(productID, 10), "Thank you for your review!")
}

// --- Addresses ---

// AddressForm is the handler for GET /address/new.
func (h *Handlers) AddressForm(c *gin.Context) {
	c.JSON(http.StatusOK, formContext(c, "address", gin.H{
		"fields":       []string{"address_type", "street", "city", "state", "zip_code", "country"},
		"addressTypes": []string{models.AddressShipping, models.AddressBilling},
	}))
}

// AddAddress is the handler for POST /address/new.
func (h *Handlers) AddAddress(c *gin.Context) {
	var input services.AddressInput
	if err := bind(c, &input); err != nil {
		h.respondError(c, err)
		return
	}

	if _, err := h.Submissions.AddAddress(c.Request.Context(), currentUserID(c), input); err != nil {
		h.respondError(c, err)
		return
	}
	redirectWithFlash(c, "/account", "Address saved.")
}

// --- Support ---

// TicketForm is the handler for GET /support/new.
func (h *Handlers) TicketForm(c *gin.Context) {
	c.JSON(http.StatusOK, formContext(c, "support", gin.H{
		"fields":     []string{"subject", "description", "priority"},
		"priorities": []string{models.PriorityLow, models.PriorityMedium, models.PriorityHigh},
	}))
}

// OpenTicket is the handler for POST /support/new.
func (h *Handlers) OpenTicket(c *gin.Context) {
	var input services.TicketInput
	if err := bind(c, &input); err != nil {
		h.respondError(c, err)
		return
	}

	ticket, err := h.Submissions.OpenSupportTicket(c.Request.Context(), currentUserID(c), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	redirectWithFlash(c, "/support/"+strconv.FormatInt(ticket.ID, 10), "Your ticket has been submitted.")
}

// GetTicket is the handler for GET /support/:id.
func (h *Handlers) GetTicket(c *gin.Context) {
	ticketID, ok := paramID(c, "id")
	if !ok {
		return
	}

	thread, err := h.Submissions.Ticket(c.Request.Context(), currentUserID(c), ticketID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, formContext(c, "ticket", gin.H{"ticket": thread.Ticket, "messages": thread.Messages}))
}

// PostTicketMessage is the handler for POST /support/:id/messages.
func (h *Handlers) PostTicketMessage(c *gin.Context) {
	ticketID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var input services.MessageInput
	if err := bind(c, &input); err != nil {
		h.respondError(c, err)
		return
	}

	if _, err := h.Submissions.PostTicketMessage(c.Request.Context(), currentUserID(c), ticketID, input); err != nil {
		h.respondError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/support/"+strconv.FormatInt(ticketID, 10))
}

// --- Contact ---

// SubmitContact is the handler for POST /contact.
func (h *Handlers) SubmitContact(c *gin.Context) {
	var input services.ContactInput
	if err := bind(c, &input); err != nil {
		h.respondError(c, err)
		return
	}

	if _, err := h.Submissions.SubmitContact(c.Request.Context(), input); err != nil {
		h.respondError(c, err)
		return
	}
	redirectWithFlash(c, "/", "Thanks for reaching out. We will get back to you soon.")
}
