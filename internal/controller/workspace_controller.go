package controller

import (
	"io"

	"ai-forge-be/internal/constant"
	"ai-forge-be/internal/dto"
	"ai-forge-be/internal/pkg/serverutils"
	"ai-forge-be/internal/service"
	"ai-forge-be/pkg/ingest"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IWorkspaceController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	SubmitTurn(ctx *fiber.Ctx) error
	AddContext(ctx *fiber.Ctx) error
	AddTextContext(ctx *fiber.Ctx) error
	RemoveContext(ctx *fiber.Ctx) error
	SetView(ctx *fiber.Ctx) error
	Preview(ctx *fiber.Ctx) error
	Source(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
}

type workspaceController struct {
	service service.IWorkspaceService
}

func NewWorkspaceController(service service.IWorkspaceService) IWorkspaceController {
	return &workspaceController{service: service}
}

func (c *workspaceController) RegisterRoutes(r fiber.Router) {
	h := r.Group(constant.WorkspaceRoutePrefix)
	h.Post("", c.Create)
	h.Get(":id", c.Show)
	h.Delete(":id", c.Delete)
	h.Post(":id/turns", c.SubmitTurn)
	h.Post(":id/context", c.AddContext)
	h.Post(":id/context/text", c.AddTextContext)
	h.Delete(":id/context/:itemId", c.RemoveContext)
	h.Put(":id/view", c.SetView)
	h.Get(":id/preview", c.Preview)
	h.Get(":id/source", c.Source)
	h.Get(":id/stats", c.Stats)
}

func parseID(ctx *fiber.Ctx, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params(param))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid "+param)
	}
	return id, nil
}

func parseBody(ctx *fiber.Ctx, out any) error {
	if err := ctx.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	return nil
}

func (c *workspaceController) Create(ctx *fiber.Ctx) error {
	res, err := c.service.Create(ctx.UserContext())
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create workspace", res))
}

func (c *workspaceController) Show(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.service.Show(ctx.UserContext(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show workspace", res))
}

func (c *workspaceController) Delete(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.UserContext(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete workspace", nil))
}

// SubmitTurn answers 202 once dispatched, or 200 when the prompt was ignored.
// With ?wait=true it holds the request until the turn resolves.
func (c *workspaceController) SubmitTurn(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.SubmitTurnRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	wait := ctx.QueryBool("wait", false)
	res, err := c.service.SubmitTurn(ctx.UserContext(), id, &req, wait)
	if err != nil {
		return err
	}

	switch {
	case !res.Accepted:
		return ctx.JSON(serverutils.SuccessResponse("Submission ignored", res))
	case wait:
		return ctx.JSON(serverutils.SuccessResponse("Turn resolved", res))
	default:
		return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Turn dispatched", res))
	}
}

func (c *workspaceController) AddContext(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return err
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "expected multipart form with field 'files'")
	}

	headers := form.File["files"]
	files := make([]ingest.File, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return err
		}
		files = append(files, ingest.File{
			Name:      fh.Filename,
			MediaType: fh.Header.Get(fiber.HeaderContentType),
			Data:      data,
		})
	}

	res, err := c.service.AddContext(ctx.UserContext(), id, files)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success add context", res))
}

func (c *workspaceController) AddTextContext(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.AddTextContextRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.AddTextContext(ctx.UserContext(), id, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success add context", res))
}

func (c *workspaceController) RemoveContext(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return err
	}
	itemId, err := parseID(ctx, "itemId")
	if err != nil {
		return err
	}

	if err := c.service.RemoveContext(ctx.UserContext(), id, itemId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success remove context", nil))
}

func (c *workspaceController) SetView(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.SetViewRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SetView(ctx.UserContext(), id, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success set view", res))
}

// Preview serves the artifact as a document under a sandboxing CSP
func (c *workspaceController) Preview(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return err
	}

	html, err := c.service.Preview(ctx.UserContext(), id)
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentSecurityPolicy, constant.PreviewSandboxPolicy)
	ctx.Set(fiber.HeaderCacheControl, "no-store")
	ctx.Type("html", "utf-8")
	return ctx.SendString(html)
}

func (c *workspaceController) Source(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return err
	}

	src, err := c.service.Source(ctx.UserContext(), id)
	if err != nil {
		return err
	}

	ctx.Type("txt", "utf-8")
	return ctx.SendString(src)
}

func (c *workspaceController) Stats(ctx *fiber.Ctx) error {
	id, err := parseID(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.service.Stats(ctx.UserContext(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get stats", res))
}
