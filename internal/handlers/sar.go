package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/datashield-dev/datashield/db"
	"github.com/datashield-dev/datashield/internal/policy"
	"github.com/datashield-dev/datashield/internal/sar"
	"github.com/datashield-dev/datashield/internal/utils"
	"github.com/gin-gonic/gin"
)

// FetchSubjectBundle handles the subject access request read path: traverse
// the ownership graph for the target subject, then project every row
// through the requester's context. Nothing leaves this handler
// unprojected.
func FetchSubjectBundle(ctx *gin.Context) {
	reqCtx, err := utils.RequestContext(ctx, policy.PurposeSARAccess)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	subjectID, err := parseSubjectID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subject id"})
		return
	}

	bundle, err := sar.FetchBundle(db.DB, subjectID)

	if err != nil {
		log.Printf("Failed to fetch bundle for subject %d: %v", subjectID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve subject data"})
		return
	}

	BroadcastAuditEvent(AuditEvent{
		Action:      "sar_access",
		SubjectID:   subjectID,
		RequesterID: reqCtx.UserID,
		Role:        reqCtx.Role,
		Outcome:     "ok",
	})

	ctx.JSON(http.StatusOK, sar.ProjectBundle(bundle, reqCtx, ruleSet))
}

// EraseSubject handles the subject erasure path. The gate and the cascade
// live in the sar package; this handler only translates their outcome to
// HTTP.
func EraseSubject(ctx *gin.Context) {
	reqCtx, err := utils.RequestContext(ctx, policy.PurposeSARAccess)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	subjectID, err := parseSubjectID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subject id"})
		return
	}

	if err := sar.DeleteSubject(db.DB, subjectID, reqCtx); err != nil {
		if errors.Is(err, sar.ErrForbidden) {
			BroadcastAuditEvent(AuditEvent{
				Action:      "sar_erase",
				SubjectID:   subjectID,
				RequesterID: reqCtx.UserID,
				Role:        reqCtx.Role,
				Outcome:     "forbidden",
			})
			ctx.JSON(http.StatusForbidden, gin.H{"error": "Not allowed to erase this subject"})
			return
		}

		log.Printf("Failed to erase subject %d: %v", subjectID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to erase subject"})
		return
	}

	BroadcastAuditEvent(AuditEvent{
		Action:      "sar_erase",
		SubjectID:   subjectID,
		RequesterID: reqCtx.UserID,
		Role:        reqCtx.Role,
		Outcome:     "ok",
	})

	ctx.Status(http.StatusNoContent)
}

func parseSubjectID(ctx *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(ctx.Param("user_id"), 10, 64)

	if err != nil {
		return 0, err
	}

	return uint(id), nil
}
