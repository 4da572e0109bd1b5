// Copyright 2025 Atelier Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package http

var (
	Failed                        = failed(500, "Request failed")
	RequestParameterParsingFailed = failed(5001, "Request parameter parsing failed")
	WorkspaceIdIsEmpty            = failed(5002, "Workspace id is empty")
	InvitationIdIsEmpty           = failed(5003, "Invitation id is empty")
	UserIdIsEmpty                 = failed(5004, "User id is empty")

	// Unauthorized 401
	Unauthorized         = failed(4401, "Unauthorized")
	AuthenticationFailed = failed(4402, "Authentication failed")
	InvalidToken         = failed(4405, "Invalid token")
	TokenBeEmpty         = failed(4406, "Token cannot be empty")
	TokenExpired         = failed(4407, "Token is expired")
	TokenFormatIncorrect = failed(4408, "Token format is incorrect")

	// BadRequest 400
	BadRequest = failed(4000, "Bad request")
	NotFound   = failed(4004, "Not found")
	Conflict   = failed(4009, "Conflict")

	// Forbidden 403
	Forbidden         = failed(4030, "Forbidden")
	PermissionDenied  = failed(4031, "Permission denied")
	NoWorkspaceAccess = failed(4032, "No active workspace membership")

	InternalError = failed(5000, "Internal error, please contact the administrator")

	UserNotExist                  = failed(4041, "User does not exist")
	UserAlreadyExist              = failed(4042, "User already exists")
	UserIncorrectPassword         = failed(4043, "User incorrect password")
	UsernameArePasswordIsRequired = failed(4045, "Username and password are required")

	WorkspaceNotExist        = failed(4051, "Workspace does not exist")
	InvitationNotExist       = failed(4052, "Invitation does not exist")
	InvitationExpired        = failed(4053, "Invitation is expired")
	InvitationEmailMismatch  = failed(4054, "Invitation email mismatch")
	InvitationAlreadyPending = failed(4055, "A pending invitation already exists for this email")
	MemberAlreadyExist       = failed(4056, "User is already a member of this workspace")
	TooManyRequests          = failed(4290, "Too many requests")
)

var (
	Success = success(200, "Request Success")
)

// failed 构造函数
func failed(code int, msg string) *Response {
	return &Response{
		Code:   code,
		Msg:    msg,
		Detail: nil,
	}
}

// success 构造函数
func success(code int, msg string) *Response {
	return &Response{
		Code:   code,
		Msg:    msg,
		Detail: nil,
	}
}
