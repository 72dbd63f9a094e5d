package api

import (
	"chat-hub/domain"
	"chat-hub/services"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

// listPublicRooms handles GET /rooms. No identity required.
func (s *Server) listPublicRooms(c *fiber.Ctx) error {
	page := pageOf(c, domain.DefaultPageSize)
	rooms, err := s.chats.ListPublicRooms(c.UserContext(), page)
	if err != nil {
		return err
	}
	return c.JSON(list(rooms, page))
}

func (s *Server) createPublicRoom(c *fiber.Ctx) error {
	var body CreateRoomRequest
	if err := s.bind(c, &body); err != nil {
		return err
	}
	creator, err := caller(c, body.IdentityFields)
	if err != nil {
		return err
	}
	room, err := s.chats.CreatePublicRoom(c.UserContext(), services.PublicRoomRequest{
		Title:       body.Title,
		Description: body.Description,
		ImageURL:    body.ImageURL,
		Creator:     creator,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(room)
}

// getRoom handles GET /rooms/:roomId, with a canonical id or a virtual key.
func (s *Server) getRoom(c *fiber.Ctx) error {
	room, err := s.chats.GetRoom(c.UserContext(), c.Params("roomId"))
	if err != nil {
		return err
	}
	return c.JSON(room)
}

func (s *Server) getOrCreateEventRoom(c *fiber.Ctx) error {
	var body EventRoomRequest
	if err := s.bind(c, &body); err != nil {
		return err
	}
	req := services.EventRoomRequest{LinkedEventID: body.LinkedEventID, Title: body.Title, EventType: body.EventType}
	if body.Organizer != nil {
		req.Organizer = lo.ToPtr(body.Organizer.toDomain())
	}
	room, err := s.chats.GetOrCreateEventRoom(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(room)
}

func (s *Server) getOrCreateDirectRoom(c *fiber.Ctx) error {
	var body DirectRoomRequest
	if err := s.bind(c, &body); err != nil {
		return err
	}
	me, err := caller(c, body.IdentityFields)
	if err != nil {
		return err
	}
	room, err := s.chats.GetOrCreateDirectRoom(c.UserContext(), me, body.Other.toDomain())
	if err != nil {
		return err
	}
	return c.JSON(room)
}

func (s *Server) listUserRooms(c *fiber.Ctx) error {
	page := pageOf(c, domain.DefaultPageSize)
	rooms, err := s.chats.ListUserRooms(c.UserContext(), c.Params("userId"), page)
	if err != nil {
		return err
	}
	return c.JSON(list(rooms, page))
}

// joinRoom handles POST /rooms/:roomId/join. The identity comes from the session, else the body.
func (s *Server) joinRoom(c *fiber.Ctx) error {
	var body MembershipRequest
	if err := s.bind(c, &body); err != nil {
		return err
	}
	profile, err := caller(c, body.IdentityFields)
	if err != nil {
		return err
	}
	member, err := s.chats.JoinRoom(c.UserContext(), c.Params("roomId"), profile)
	if err != nil {
		return err
	}
	return c.JSON(member)
}

func (s *Server) leaveRoom(c *fiber.Ctx) error {
	var body MembershipRequest
	if err := s.bind(c, &body); err != nil {
		return err
	}
	profile, err := caller(c, body.IdentityFields)
	if err != nil {
		return err
	}
	if err = s.chats.LeaveRoom(c.UserContext(), c.Params("roomId"), profile.UserID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) listMembers(c *fiber.Ctx) error {
	page := pageOf(c, domain.DefaultPageSize)
	members, err := s.chats.ListMembers(c.UserContext(), c.Params("roomId"), page)
	if err != nil {
		return err
	}
	return c.JSON(list(members, page))
}

func (s *Server) listOnlineMembers(c *fiber.Ctx) error {
	members, err := s.chats.ListOnlineMembers(c.UserContext(), c.Params("roomId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"items": lo.Ternary(members == nil, []domain.MemberView{}, members), "count": len(members)})
}

func (s *Server) listParticipants(c *fiber.Ctx) error {
	page := pageOf(c, domain.DefaultPageSize)
	members, err := s.chats.ListParticipants(c.UserContext(), c.Params("roomId"), c.QueryBool("onlineOnly", false), page)
	if err != nil {
		return err
	}
	return c.JSON(list(members, page))
}
