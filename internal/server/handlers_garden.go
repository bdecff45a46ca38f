package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rythu-saathi/backend/internal/forum"
	"github.com/rythu-saathi/backend/internal/journal"
	"github.com/rythu-saathi/backend/internal/watering"
)

func (h *httpHandler) handleForumList(c *gin.Context) {
	posts, err := h.deps.Forum.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

func (h *httpHandler) handleForumGet(c *gin.Context) {
	post, err := h.deps.Forum.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

type forumCreatePayload struct {
	UserName string   `json:"userName"`
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Language string   `json:"language"`
	Tags     []string `json:"tags"`
}

func (h *httpHandler) handleForumCreate(c *gin.Context) {
	var request forumCreatePayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	post, err := h.deps.Forum.Create(c.Request.Context(), forum.CreateRequest{
		UserID:   c.GetString(userIDContextKey),
		UserName: request.UserName,
		Title:    request.Title,
		Content:  request.Content,
		Language: request.Language,
		Tags:     request.Tags,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

type forumReplyPayload struct {
	UserName string `json:"userName"`
	Content  string `json:"content"`
}

func (h *httpHandler) handleForumReply(c *gin.Context) {
	var request forumReplyPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	post, err := h.deps.Forum.AddReply(c.Request.Context(), c.Param("id"), forum.ReplyRequest{
		UserID:   c.GetString(userIDContextKey),
		UserName: request.UserName,
		Content:  request.Content,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *httpHandler) handleForumLikePost(c *gin.Context) {
	post, err := h.deps.Forum.LikePost(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *httpHandler) handleForumLikeReply(c *gin.Context) {
	post, err := h.deps.Forum.LikeReply(c.Request.Context(), c.Param("id"), c.Param("replyId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *httpHandler) handleJournalList(c *gin.Context) {
	entries, err := h.deps.Journal.List(c.Request.Context(), c.GetString(userIDContextKey))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (h *httpHandler) handleJournalAdd(c *gin.Context) {
	var entry journal.Entry
	if err := c.ShouldBindJSON(&entry); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	stored, err := h.deps.Journal.Add(c.Request.Context(), c.GetString(userIDContextKey), entry)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, stored)
}

func (h *httpHandler) handleJournalUpdate(c *gin.Context) {
	var patch journal.Entry
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	entry, err := h.deps.Journal.Update(c.Request.Context(), c.GetString(userIDContextKey), c.Param("id"), patch)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *httpHandler) handleJournalRemove(c *gin.Context) {
	if err := h.deps.Journal.Remove(c.Request.Context(), c.GetString(userIDContextKey), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *httpHandler) handleWateringList(c *gin.Context) {
	schedules, err := h.deps.Watering.List(c.Request.Context(), c.GetString(userIDContextKey))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedules": schedules})
}

func (h *httpHandler) handleWateringAdd(c *gin.Context) {
	var schedule watering.Schedule
	if err := c.ShouldBindJSON(&schedule); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	stored, err := h.deps.Watering.Add(c.Request.Context(), c.GetString(userIDContextKey), schedule)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, stored)
}

func (h *httpHandler) handleWateringUpdate(c *gin.Context) {
	var patch watering.Schedule
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	schedule, err := h.deps.Watering.Update(c.Request.Context(), c.GetString(userIDContextKey), c.Param("id"), patch)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, schedule)
}

func (h *httpHandler) handleWateringMarkWatered(c *gin.Context) {
	schedule, err := h.deps.Watering.MarkWatered(c.Request.Context(), c.GetString(userIDContextKey), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, schedule)
}

func (h *httpHandler) handleWateringRemove(c *gin.Context) {
	if err := h.deps.Watering.Remove(c.Request.Context(), c.GetString(userIDContextKey), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *httpHandler) handleWateringDue(c *gin.Context) {
	schedules, err := h.deps.Watering.Due(c.Request.Context(), c.GetString(userIDContextKey))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedules": schedules})
}

func (h *httpHandler) handleWateringNotifyDue(c *gin.Context) {
	sent, err := h.deps.Watering.NotifyDue(c.Request.Context(), c.GetString(userIDContextKey))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sent": sent})
}
