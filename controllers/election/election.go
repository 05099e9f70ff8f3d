package election

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"election-management/constants"
	"election-management/logger"
	"election-management/middleware"
	electionModel "election-management/models/election"
	"election-management/services/otp"
	"election-management/services/results"
	"election-management/services/voting"
	"election-management/types"
	electionTypes "election-management/types/election"
	"election-management/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var validate = validator.New()

// ElectionController handles election CRUD, the pincode gate, vote casting
// and the results listing.
type ElectionController struct {
	DB         *gorm.DB
	Logger     *logger.AsyncLogger
	Engine     *voting.Engine
	Aggregator *results.Aggregator
}

func NewElectionController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *ElectionController {
	return &ElectionController{
		DB:         db,
		Logger:     asyncLogger,
		Engine:     voting.NewEngine(db),
		Aggregator: results.NewAggregator(db),
	}
}

// Store creates an election from a multipart form: text fields, an optional
// banner image and candidate avatars indexed against the candidates JSON.
// The creation response is the only read that ever carries the pincode.
func (ec *ElectionController) Store(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		logger.Error("Failed to parse multipart form", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid multipart form",
		})
	}

	req := electionTypes.CreateElectionForm{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		StartDate:   c.FormValue("startDate"),
		EndDate:     c.FormValue("endDate"),
		Candidates:  c.FormValue("candidates"),
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Missing required fields",
			Data:    err.Error(),
		})
	}

	startDate, err := utils.ParseDate(req.StartDate, false)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}
	endDate, err := utils.ParseDate(req.EndDate, true)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}

	var inputs []electionTypes.CandidateInput
	if req.Candidates != "" {
		if err := json.Unmarshal([]byte(req.Candidates), &inputs); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: "Invalid candidates payload",
			})
		}
	}

	avatars := form.File["candidate_avatars"]
	candidates := make([]electionModel.Candidate, 0, len(inputs))
	for i, in := range inputs {
		if in.Name == "" || in.Party == "" {
			return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: "Candidate name and party are required",
			})
		}
		cand := electionModel.Candidate{Name: in.Name, Party: in.Party, Motto: in.Motto}
		if i < len(avatars) {
			data, contentType, err := readImageFile(avatars[i])
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
					Status:  fiber.StatusBadRequest,
					Message: err.Error(),
				})
			}
			cand.AvatarData = data
			cand.AvatarType = contentType
		}
		candidates = append(candidates, cand)
	}

	pincode, err := otp.Generate()
	if err != nil {
		logger.Error("Failed to generate pincode", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Server Error",
		})
	}

	el := electionModel.Election{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   startDate,
		EndDate:     endDate,
		Pincode:     pincode,
		Candidates:  candidates,
	}

	if files := form.File["image"]; len(files) > 0 {
		data, contentType, err := readImageFile(files[0])
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: err.Error(),
			})
		}
		uploadedAt := time.Now()
		el.ImageData = data
		el.ImageType = contentType
		el.ImageFilename = files[0].Filename
		el.ImageUploadedAt = &uploadedAt
	}

	if err := ec.DB.Create(&el).Error; err != nil {
		logger.Error("Failed to create election", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Server Error",
		})
	}

	ec.Logger.Log(utils.CreateSanitizedLogEntry(c))
	logger.Success(fmt.Sprintf("Election %d created", el.ID))

	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Election created successfully",
		Data:    toResponse(&el, true, false),
	})
}

// Index lists all elections. Pincode and image bytes are projected out.
func (ec *ElectionController) Index(c *fiber.Ctx) error {
	var elections []electionModel.Election
	if err := ec.DB.Preload("Candidates").Preload("Ballots").
		Order("id").Find(&elections).Error; err != nil {
		logger.Error("Failed to list elections", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Server Error",
		})
	}

	responses := make([]electionTypes.ElectionResponse, 0, len(elections))
	for i := range elections {
		responses = append(responses, toResponse(&elections[i], false, false))
	}
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Elections retrieved successfully",
		Data:    responses,
	})
}

// Show returns one election with candidate avatars inlined as data URIs.
// The pincode stays hidden.
func (ec *ElectionController) Show(c *fiber.Ctx) error {
	el, ok := ec.findElection(c, true)
	if !ok {
		return nil
	}
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Election retrieved successfully",
		Data:    toResponse(el, false, true),
	})
}

// Image serves the stored banner bytes with their original content type.
func (ec *ElectionController) Image(c *fiber.Ctx) error {
	el, ok := ec.findElection(c, false)
	if !ok {
		return nil
	}
	if !el.HasImage() {
		return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: "Image not found",
		})
	}
	c.Set(fiber.HeaderContentType, el.ImageType)
	return c.Send(el.ImageData)
}

// VerifyPincode is the access gate for detail views. It reports a mismatch
// as an authorization failure without leaking the stored value, changes no
// state, and is never consulted again by the voting path.
func (ec *ElectionController) VerifyPincode(c *fiber.Ctx) error {
	var req electionTypes.VerifyPincodeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}

	el, ok := ec.findElection(c, false)
	if !ok {
		return nil
	}
	if el.Pincode != req.Pincode {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "Invalid pincode",
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Pincode verified",
		Data:    fiber.Map{"success": true},
	})
}

// Update applies a partial update. Candidates are merged by id so existing
// vote counts survive; removal is a separate explicit operation.
func (ec *ElectionController) Update(c *fiber.Ctx) error {
	el, ok := ec.findElection(c, true)
	if !ok {
		return nil
	}

	if v := c.FormValue("title"); v != "" {
		el.Title = v
	}
	if v := c.FormValue("description"); v != "" {
		el.Description = v
	}
	if v := c.FormValue("startDate"); v != "" {
		startDate, err := utils.ParseDate(v, false)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: err.Error(),
			})
		}
		el.StartDate = startDate
	}
	if v := c.FormValue("endDate"); v != "" {
		endDate, err := utils.ParseDate(v, true)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: err.Error(),
			})
		}
		el.EndDate = endDate
	}

	var inputs []electionTypes.CandidateInput
	if v := c.FormValue("candidates"); v != "" {
		if err := json.Unmarshal([]byte(v), &inputs); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: "Invalid candidates payload",
			})
		}
		for _, in := range inputs {
			if in.ID != 0 && el.FindCandidate(in.ID) == nil {
				return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
					Status:  fiber.StatusNotFound,
					Message: "Candidate not found",
				})
			}
			if in.Name == "" || in.Party == "" {
				return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
					Status:  fiber.StatusBadRequest,
					Message: "Candidate name and party are required",
				})
			}
		}
	}

	if fh, err := c.FormFile("image"); err == nil && fh != nil {
		data, contentType, err := readImageFile(fh)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: err.Error(),
			})
		}
		uploadedAt := time.Now()
		el.ImageData = data
		el.ImageType = contentType
		el.ImageFilename = fh.Filename
		el.ImageUploadedAt = &uploadedAt
	}

	err := ec.DB.Transaction(func(tx *gorm.DB) error {
		// Candidate merge: updates touch name/party/motto only, vote counts
		// are untouched; unknown inputs become new candidates.
		for _, in := range inputs {
			if in.ID != 0 {
				if err := tx.Model(&electionModel.Candidate{}).
					Where("id = ? AND election_id = ?", in.ID, el.ID).
					Updates(map[string]interface{}{
						"name":  in.Name,
						"party": in.Party,
						"motto": in.Motto,
					}).Error; err != nil {
					return err
				}
				continue
			}
			cand := electionModel.Candidate{
				ElectionID: el.ID,
				Name:       in.Name,
				Party:      in.Party,
				Motto:      in.Motto,
			}
			if err := tx.Create(&cand).Error; err != nil {
				return err
			}
		}
		return tx.Omit(clause.Associations).Save(el).Error
	})
	if err != nil {
		logger.Error("Failed to update election", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Server Error",
		})
	}

	if err := ec.DB.Preload("Candidates").Preload("Ballots").First(el, el.ID).Error; err != nil {
		logger.Error("Failed to reload election", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Server Error",
		})
	}

	ec.Logger.Log(utils.CreateSanitizedLogEntry(c))

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Election updated successfully",
		Data:    toResponse(el, false, false),
	})
}

// RemoveCandidate deletes one candidate from an election. This is the
// explicit removal path; updates never drop candidates implicitly.
func (ec *ElectionController) RemoveCandidate(c *fiber.Ctx) error {
	el, ok := ec.findElection(c, false)
	if !ok {
		return nil
	}
	candidateID, err := c.ParamsInt("candidateId")
	if err != nil || candidateID <= 0 {
		return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: "Candidate not found",
		})
	}

	res := ec.DB.Where("id = ? AND election_id = ?", candidateID, el.ID).
		Delete(&electionModel.Candidate{})
	if res.Error != nil {
		logger.Error("Failed to delete candidate", res.Error)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Server Error",
		})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: "Candidate not found",
		})
	}

	ec.Logger.Log(utils.CreateSanitizedLogEntry(c))

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Candidate removed successfully",
	})
}

// Destroy deletes an election together with its candidates and ballots.
func (ec *ElectionController) Destroy(c *fiber.Ctx) error {
	el, ok := ec.findElection(c, false)
	if !ok {
		return nil
	}

	err := ec.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("election_id = ?", el.ID).Delete(&electionModel.Ballot{}).Error; err != nil {
			return err
		}
		if err := tx.Where("election_id = ?", el.ID).Delete(&electionModel.Candidate{}).Error; err != nil {
			return err
		}
		return tx.Delete(&electionModel.Election{}, el.ID).Error
	})
	if err != nil {
		logger.Error("Failed to delete election", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Server Error",
		})
	}

	ec.Logger.Log(utils.CreateSanitizedLogEntry(c))

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Election deleted successfully",
	})
}

// Results returns the standings of every election; closed elections carry a
// winner or the synthetic tie entry.
func (ec *ElectionController) Results(c *fiber.Ctx) error {
	standings, err := ec.Aggregator.ComputeResults()
	if err != nil {
		logger.Error("Failed to compute results", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Server Error",
		})
	}
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Results retrieved successfully",
		Data:    standings,
	})
}

// Vote casts the authenticated account's vote through the voting engine.
func (ec *ElectionController) Vote(c *fiber.Ctx) error {
	var req electionTypes.VoteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}

	acct := middleware.CurrentAccount(c)
	if acct == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "Not authorized, no token",
		})
	}

	electionID, err := c.ParamsInt("id")
	if err != nil || electionID <= 0 {
		return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: "Election not found",
		})
	}

	el, err := ec.Engine.CastVote(uint(electionID), acct.ID, req.CandidateID)
	if err != nil {
		status := fiber.StatusInternalServerError
		message := "Server Error"
		switch {
		case errors.Is(err, voting.ErrElectionNotFound),
			errors.Is(err, voting.ErrCandidateNotFound):
			status = fiber.StatusNotFound
			message = err.Error()
		case errors.Is(err, voting.ErrNotStarted),
			errors.Is(err, voting.ErrEnded),
			errors.Is(err, voting.ErrAlreadyVoted):
			status = fiber.StatusBadRequest
			message = err.Error()
		default:
			logger.Error("Vote casting failed", err)
		}
		return c.Status(status).JSON(types.ApiResponse{
			Status:  status,
			Message: message,
		})
	}

	ec.Logger.Log(utils.CreateSanitizedLogEntry(c))

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Vote cast successfully",
		Data:    toResponse(el, false, false),
	})
}

// findElection loads the election addressed by the :id param. When it cannot,
// it writes the 404 or 500 response itself and reports ok=false; callers must
// then return without touching the election or the response. The writes of
// c.Status(...).JSON(...) return nil on success, so their result cannot double
// as the failure signal.
func (ec *ElectionController) findElection(c *fiber.Ctx, withAssociations bool) (*electionModel.Election, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		_ = c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: "Election not found",
		})
		return nil, false
	}

	query := ec.DB
	if withAssociations {
		query = query.Preload("Candidates").Preload("Ballots")
	}

	var el electionModel.Election
	if err := query.First(&el, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Election not found",
			})
			return nil, false
		}
		logger.Error("Failed to load election", err)
		_ = c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Server Error",
		})
		return nil, false
	}
	return &el, true
}

// readImageFile validates and reads an uploaded image part.
func readImageFile(fh *multipart.FileHeader) ([]byte, string, error) {
	if fh.Size > constants.MaxImageSize {
		return nil, "", fmt.Errorf("image exceeds the %dMB limit", constants.MaxImageSize/(1024*1024))
	}
	contentType := fh.Header.Get(fiber.HeaderContentType)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, "", fmt.Errorf("only image files are allowed")
	}

	f, err := fh.Open()
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", err
	}
	return data, contentType, nil
}

// toResponse builds the outward projection. includePincode is true only for
// the creation response; inlineAvatars embeds avatar bytes as data URIs on
// detail reads.
func toResponse(el *electionModel.Election, includePincode, inlineAvatars bool) electionTypes.ElectionResponse {
	candidates := make([]electionTypes.CandidateResponse, 0, len(el.Candidates))
	for _, cand := range el.Candidates {
		cr := electionTypes.CandidateResponse{
			ID:    cand.ID,
			Name:  cand.Name,
			Party: cand.Party,
			Motto: cand.Motto,
			Votes: cand.Votes,
		}
		if inlineAvatars && len(cand.AvatarData) > 0 {
			cr.Avatar = fmt.Sprintf("data:%s;base64,%s",
				cand.AvatarType, base64.StdEncoding.EncodeToString(cand.AvatarData))
		}
		candidates = append(candidates, cr)
	}

	resp := electionTypes.ElectionResponse{
		ID:          el.ID,
		Title:       el.Title,
		Description: el.Description,
		StartDate:   el.StartDate,
		EndDate:     el.EndDate,
		Candidates:  candidates,
		Voters:      el.VoterIDs(),
		HasImage:    el.HasImage(),
		CreatedAt:   el.CreatedAt,
		UpdatedAt:   el.UpdatedAt,
	}
	if includePincode {
		resp.Pincode = el.Pincode
	}
	return resp
}
