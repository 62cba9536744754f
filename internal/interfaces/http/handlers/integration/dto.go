package integration

import (
	integrationapp "github.com/Logicalyan/dashbord-reporting-module/internal/application/integration"
	"github.com/Logicalyan/dashbord-reporting-module/internal/application/integration/dto"
	domain "github.com/Logicalyan/dashbord-reporting-module/internal/domain/integration"
)

type ConnectRequest struct {
	Provider string `json:"provider" binding:"required"`
	Name     string `json:"name" binding:"omitempty,max=100"`
	APIURL   string `json:"api_url" binding:"required,url"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (r *ConnectRequest) ToCommand(userID uint) integrationapp.ConnectCommand {
	return integrationapp.ConnectCommand{
		UserID:   userID,
		Provider: domain.Provider(r.Provider),
		Name:     r.Name,
		APIURL:   r.APIURL,
		Email:    r.Email,
		Password: r.Password,
	}
}

type ReauthenticateRequest struct {
	Password string `json:"password" binding:"required"`
}

type ListResponse struct {
	Integrations []*dto.IntegrationDTO `json:"integrations"`
	Summary      *dto.StatusSummary    `json:"summary"`
}
