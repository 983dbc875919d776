package server

import (
	"paceup/internal/models"
	"paceup/internal/repository"
	"paceup/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListBlogPosts handles GET /api/v1/blog/posts
func (s *Server) ListBlogPosts(c *fiber.Ctx) error {
	return s.listPosts(c, models.PostTypeBlog, c.Query("status"))
}

// ListContentPosts handles GET /api/v1/content/posts. Content posts are
// published on creation, so the status filter is pinned to approved.
func (s *Server) ListContentPosts(c *fiber.Ctx) error {
	return s.listPosts(c, models.PostTypeContent, models.StatusApproved)
}

func (s *Server) listPosts(c *fiber.Ctx, postType, status string) error {
	page := parsePagination(c, 20)
	userID := s.optionalUserID(c)

	posts, err := s.postService.ListPosts(c.Context(), repository.PostFilter{
		PostType: postType,
		Status:   status,
		Limit:    page.Limit,
		Offset:   page.Offset,
	}, userID)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(posts)
}

// GetBlogPost handles GET /api/v1/blog/posts/:id
func (s *Server) GetBlogPost(c *fiber.Ctx) error {
	return s.getPost(c, models.PostTypeBlog)
}

// GetContentPost handles GET /api/v1/content/posts/:id
func (s *Server) GetContentPost(c *fiber.Ctx) error {
	return s.getPost(c, models.PostTypeContent)
}

func (s *Server) getPost(c *fiber.Ctx, postType string) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.Context(), postType, id, s.optionalUserID(c))
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(post)
}

// CreateBlogPost handles POST /api/v1/blog/posts
func (s *Server) CreateBlogPost(c *fiber.Ctx) error {
	return s.createPost(c, models.PostTypeBlog)
}

// CreateContentPost handles POST /api/v1/content/posts
func (s *Server) CreateContentPost(c *fiber.Ctx) error {
	return s.createPost(c, models.PostTypeContent)
}

func (s *Server) createPost(c *fiber.Ctx, postType string) error {
	var req service.CreatePostInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	req.UserID = currentUserID(c)
	req.PostType = postType

	post, err := s.postService.CreatePost(c.Context(), req)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/v1/{blog,content}/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return nil
	}

	var req service.UpdatePostInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	req.UserID = currentUserID(c)
	req.PostID = id

	post, err := s.postService.UpdatePost(c.Context(), req)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/v1/{blog,content}/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return nil
	}

	userID := currentUserID(c)
	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return respondAppError(c, err)
	}

	if err := s.postService.DeletePost(c.Context(), id, userID, user.IsAdmin()); err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted"})
}

// LikePost handles POST /api/v1/{blog,content}/posts/:id/like
func (s *Server) LikePost(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.LikePost(c.Context(), id, currentUserID(c))
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(post)
}

// UnlikePost handles DELETE /api/v1/{blog,content}/posts/:id/like
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.UnlikePost(c.Context(), id, currentUserID(c))
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(post)
}
