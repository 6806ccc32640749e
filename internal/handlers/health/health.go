package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/pruebavolte/salvadorex-queue/internal/redis"
)

type HandlerHealth struct {
	logger     *zerolog.Logger
	memStorage redis.MemStorage
}

// NewHealthHandler - constructor for HandlerHealth.
func NewHealthHandler(memStorage redis.MemStorage, l *zerolog.Logger) *HandlerHealth {
	return &HandlerHealth{
		logger:     l,
		memStorage: memStorage,
	}
}

func (mh *HandlerHealth) Ping(response http.ResponseWriter, req *http.Request) {
	if err := mh.memStorage.Ping(req.Context()); err != nil {
		mh.logger.Error().Err(err).Msg("No connection to session store")
		http.Error(response, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)

		return
	}

	response.WriteHeader(http.StatusOK)
}
