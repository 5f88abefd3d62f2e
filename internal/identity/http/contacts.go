package http

import (
	"net/http"

	"github.com/ridesafe/identity/internal/identity/httpx"
	"github.com/ridesafe/identity/internal/identity/service"
	"github.com/ridesafe/identity/pkg/identitysdk"
)

// ContactsHandler serves a rider's emergency contacts.
type ContactsHandler struct {
	Contacts *service.ContactService
}

// HandleList handles GET /contacts
//
//	@Summary		List emergency contacts
//	@Tags			Contacts
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	identitysdk.ContactsResponse	"Contacts"
//	@Failure		403	{object}	identitysdk.ErrorResponse		"Rider access required"
//	@Router			/contacts [get].
func (h *ContactsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	cs, err := h.Contacts.List(r.Context(), p.ID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, identitysdk.ContactsResponse{Success: true, Contacts: toContacts(cs)})
}

// HandleAdd handles POST /contacts
//
//	@Summary		Add an emergency contact
//	@Description	A rider may hold at most 5 contacts.
//	@Tags			Contacts
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		identitysdk.ContactRequest	true	"Contact"
//	@Success		201		{object}	identitysdk.ContactResponse	"Created contact"
//	@Failure		400		{object}	identitysdk.ErrorResponse	"Validation failed or limit reached"
//	@Failure		409		{object}	identitysdk.ErrorResponse	"Concurrent modification"
//	@Router			/contacts [post].
func (h *ContactsHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req identitysdk.ContactRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	c, err := h.Contacts.Add(r.Context(), p.ID, contactInput(req))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, identitysdk.ContactResponse{
		Success: true,
		Message: "Contact added",
		Contact: toContact(c),
	})
}

// HandleUpdate handles PUT /contacts/{id}
//
//	@Summary		Update an emergency contact
//	@Tags			Contacts
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Contact id"
//	@Param			request	body		identitysdk.ContactRequest	true	"Contact"
//	@Success		200		{object}	identitysdk.ContactResponse	"Updated contact"
//	@Failure		404		{object}	identitysdk.ErrorResponse	"Contact not found"
//	@Router			/contacts/{id} [put].
func (h *ContactsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req identitysdk.ContactRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	c, err := h.Contacts.Update(r.Context(), p.ID, r.PathValue("id"), contactInput(req))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, identitysdk.ContactResponse{
		Success: true,
		Message: "Contact updated",
		Contact: toContact(c),
	})
}

// HandleDelete handles DELETE /contacts/{id}
//
//	@Summary		Remove an emergency contact
//	@Tags			Contacts
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string						true	"Contact id"
//	@Success		200	{object}	identitysdk.MessageResponse	"Contact removed"
//	@Failure		404	{object}	identitysdk.ErrorResponse	"Contact not found"
//	@Router			/contacts/{id} [delete].
func (h *ContactsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	if err := h.Contacts.Delete(r.Context(), p.ID, r.PathValue("id")); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, identitysdk.MessageResponse{Success: true, Message: "Contact removed"})
}
