package openai

// ModelsResponse is the list shape served by the models endpoint.
type ModelsResponse struct {
	Object string  `json:"object"`
	Data   []Model `json:"data"`
}

type Model struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	OwnedBy string `json:"owned_by"`
}

func NewModelsResponse(models []Model) ModelsResponse {
	if models == nil {
		models = []Model{}
	}
	return ModelsResponse{Object: "list", Data: models}
}

func NewModel(id, ownedBy string) Model {
	return Model{ID: id, Object: "model", OwnedBy: ownedBy}
}
