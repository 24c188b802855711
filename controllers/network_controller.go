package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"orgsnap-api/services"
	"orgsnap-api/utils"
)

type NetworkController struct {
	networkService *services.NetworkService
}

func NewNetworkController(networkService *services.NetworkService) *NetworkController {
	return &NetworkController{networkService: networkService}
}

// GetNetwork returns the caller's 2-hop friendship graph. A failed query is
// a 500, never a silently empty graph.
func (nc *NetworkController) GetNetwork(c *gin.Context) {
	userID := c.GetString("user_id")

	data, err := nc.networkService.BuildNetwork(userID)
	if err != nil {
		utils.SendDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, data)
}
