// Project Structure Overview
/*
cultivar-backend/
├── cmd/
│   └── server/
│       └── main.go
├── internal/
│   ├── config/
│   │   ├── config.go
│   │   └── database.go
│   ├── models/
│   │   ├── user.go
│   │   ├── license.go
│   │   ├── payment.go
│   │   ├── fieldtrial.go
│   │   ├── audit.go
│   │   └── common.go
│   ├── handlers/
│   │   ├── auth.go
│   │   ├── license.go
│   │   ├── royalty.go
│   │   ├── fieldtrial.go
│   │   └── common.go
│   ├── services/
│   │   ├── auth_service.go
│   │   ├── authorization_service.go
│   │   ├── license_service.go
│   │   ├── royalty_service.go
│   │   ├── fieldtrial_service.go
│   │   ├── settlement_service.go
│   │   ├── storage_service.go
│   │   └── errors.go
│   ├── middleware/
│   │   ├── auth.go
│   │   ├── cors.go
│   │   ├── rate_limit.go
│   │   └── logging.go
│   ├── database/
│   │   └── connection.go
│   ├── utils/
│   │   ├── jwt.go
│   │   ├── validator.go
│   │   ├── crypto.go
│   │   ├── pagination.go
│   │   └── response.go
│   └── router/
│       └── router.go
├── go.mod
├── Dockerfile
├── docker-compose.yml
└── README.md
*/

package cultivarbackend

// This file shows the project structure and main entry point
// The actual implementation will be in separate files as shown in the structure above
