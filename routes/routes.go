package routes

import (
	"github.com/Dosada05/league-system/handlers"
	"github.com/Dosada05/league-system/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes собирает таблицу маршрутов. Чтение и запись закрыты bearer-токеном;
// websocket-подписка открыта, токен браузерному клиенту поставить некуда.
func SetupRoutes(
	router *chi.Mux,
	auth *middleware.Authenticator,
	leagueHandler *handlers.LeagueHandler,
	teamHandler *handlers.TeamHandler,
	rosterHandler *handlers.RosterHandler,
	scheduleHandler *handlers.ScheduleHandler,
	gameHandler *handlers.GameHandler,
	standingsHandler *handlers.StandingsHandler,
	playoffHandler *handlers.PlayoffHandler,
	freeAgencyHandler *handlers.FreeAgencyHandler,
	tradeHandler *handlers.TradeHandler,
	draftHandler *handlers.DraftHandler,
	waiverHandler *handlers.WaiverHandler,
	injuryHandler *handlers.InjuryHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/ws/leagues/{leagueID}", webSocketHandler.ServeLeague)

	router.Group(func(r chi.Router) {
		r.Use(auth.Authenticate)

		r.Route("/leagues", func(r chi.Router) {
			r.With(middleware.RequireCommissioner).Post("/", leagueHandler.Create)
			r.Get("/", leagueHandler.List)

			r.Route("/{leagueID}", func(r chi.Router) {
				r.Get("/", leagueHandler.GetByID)
				r.Patch("/", leagueHandler.Update)
				r.With(middleware.RequireCommissioner).Delete("/", leagueHandler.Delete)
				r.Get("/structure", leagueHandler.GetStructure)

				r.Patch("/conferences/{conferenceID}", leagueHandler.RenameConference)
				r.Patch("/divisions/{divisionID}", leagueHandler.RenameDivision)

				r.Route("/teams", func(r chi.Router) {
					r.Post("/", teamHandler.Create)
					r.Get("/", teamHandler.ListByLeague)

					r.Route("/{teamID}", func(r chi.Router) {
						r.Get("/", teamHandler.GetByID)
						r.Delete("/", teamHandler.Delete)

						r.Get("/roster", rosterHandler.GetRoster)
						r.Post("/roster", rosterHandler.AddPlayer)
						r.Delete("/roster/{playerID}", rosterHandler.Release)
					})
				})

				r.Put("/players/{playerID}/contract", rosterHandler.UpdateContract)

				r.Route("/seasons", func(r chi.Router) {
					r.Post("/", scheduleHandler.Generate)

					r.Route("/{year}", func(r chi.Router) {
						r.Get("/", scheduleHandler.GetSeason)
						r.Get("/standings", standingsHandler.GetByLeagueYear)

						r.Route("/playoffs", func(r chi.Router) {
							r.Post("/", playoffHandler.Start)
							r.Get("/seeds", playoffHandler.Seeds)
							r.Get("/bracket", playoffHandler.Bracket)
							r.Post("/advance", playoffHandler.Advance)
						})
					})
				})

				r.Get("/free-agents", freeAgencyHandler.ListFreeAgents)
				r.Get("/bids", freeAgencyHandler.ListBids)
				r.Post("/bids", freeAgencyHandler.PlaceBid)
				r.Post("/free-agency/resolve", freeAgencyHandler.Resolve)

				r.Post("/trades", tradeHandler.Create)
				r.Get("/trades", tradeHandler.ListByLeague)

				r.Post("/waivers", waiverHandler.Release)
				r.Get("/waivers", waiverHandler.ListByLeague)

				r.Post("/drafts", draftHandler.Create)
				r.Post("/rookies", draftHandler.GenerateRookiePool)
				r.Get("/rookies", draftHandler.ListRookiePool)

				r.Post("/injuries", injuryHandler.Create)
				r.Get("/injuries", injuryHandler.ListByLeague)
			})
		})

		r.Post("/games/{gameID}/complete", gameHandler.Complete)
		r.Post("/games/{gameID}/reopen", gameHandler.Reopen)
		r.Post("/games/{gameID}/move", gameHandler.Move)
		r.Get("/games/{gameID}", gameHandler.GetByID)

		r.Get("/trades/{tradeID}", tradeHandler.GetByID)
		r.Post("/trades/{tradeID}/accept", tradeHandler.Accept)
		r.Post("/trades/{tradeID}/reverse", tradeHandler.Reverse)
		r.Post("/trades/{tradeID}/reject", tradeHandler.Reject)

		r.Post("/waivers/{waiverID}/claim", waiverHandler.Claim)

		r.Get("/drafts/{draftID}", draftHandler.GetByID)
		r.Post("/draft-picks/{pickID}/select", draftHandler.SelectPick)

		r.Post("/injuries/{injuryID}/resolve", injuryHandler.Resolve)
	})
}
