package meetup

// GraphQL query and mutation documents for the Meetup API.

const selfQuery = `
query {
  self {
    id
    name
    memberships {
      totalCount
    }
  }
}
`

const groupByURLNameQuery = `
query($urlname: String!) {
  groupByUrlname(urlname: $urlname) {
    id
    name
    urlname
    description
    city
    country
    lat
    lon
    memberships {
      totalCount
    }
    link
    timezone
    keyGroupPhoto {
      baseUrl
    }
  }
}
`

const eventByIDQuery = `
query($eventId: ID!) {
  event(id: $eventId) {
    id
    title
    description
    dateTime
    duration
    endTime
    eventUrl
    status
    maxTickets
    rsvpSettings {
      rsvpOpenTime
      rsvpCloseTime
      rsvpsClosed
    }
    venue {
      id
      name
      address
      city
      state
      country
      lat
      lon
    }
    group {
      id
      name
      urlname
    }
    eventHosts {
      name
      member {
        id
      }
    }
  }
}
`

const networkByURLNameQuery = `
query($urlname: ID!) {
  proNetwork(urlname: $urlname) {
    id
    name
    urlname
    description
    status
    logo {
      baseUrl
    }
    link
  }
}
`

const listMyGroupsQuery = `
query($first: Int, $after: String) {
  self {
    memberships(first: $first, after: $after) {
      totalCount
      pageInfo {
        hasNextPage
        endCursor
      }
      edges {
        node {
          id
          name
          urlname
          city
          country
          memberships {
            totalCount
          }
        }
      }
    }
  }
}
`

const searchEventsQuery = `
query(
  $filter: EventSearchFilter!,
  $first: Int,
  $after: String
) {
  eventSearch(
    filter: $filter,
    first: $first,
    after: $after
  ) {
    totalCount
    pageInfo {
      hasNextPage
      endCursor
    }
    edges {
      node {
        id
        title
        dateTime
        duration
        eventUrl
        status
        group {
          name
          urlname
        }
        venue {
          name
          city
          country
        }
      }
    }
  }
}
`

const searchGroupsQuery = `
query(
  $filter: GroupSearchFilter!,
  $first: Int,
  $after: String
) {
  groupSearch(
    filter: $filter,
    first: $first,
    after: $after
  ) {
    totalCount
    pageInfo {
      hasNextPage
      endCursor
    }
    edges {
      node {
        id
        name
        urlname
        city
        country
        description
        memberships {
          totalCount
        }
      }
    }
  }
}
`

const networkSearchEventsQuery = `
query(
  $urlname: ID!,
  $query: String,
  $first: Int,
  $after: String
) {
  proNetwork(urlname: $urlname) {
    eventsSearch(input: { filter: { query: $query }, first: $first, after: $after }) {
      totalCount
      pageInfo { hasNextPage endCursor }
      edges {
        node {
          id title dateTime eventUrl status
          group { name urlname }
        }
      }
    }
  }
}
`

const networkSearchGroupsQuery = `
query($urlname: ID!, $query: String, $first: Int, $after: String) {
  proNetwork(urlname: $urlname) {
    groupsSearch(input: { filter: { query: $query }, first: $first, after: $after }) {
      totalCount
      pageInfo { hasNextPage endCursor }
      edges {
        node {
          id name urlname city country
          memberships { totalCount }
        }
      }
    }
  }
}
`

const networkSearchMembersQuery = `
query(
  $urlname: ID!,
  $filter: NetworkUsersFilter,
  $first: Int,
  $after: String,
  $sort: String,
  $desc: Boolean
) {
  proNetwork(urlname: $urlname) {
    membersSearch(input: {
      filter: $filter,
      first: $first, after: $after,
      sort: $sort, desc: $desc
    }) {
      totalCount
      pageInfo { hasNextPage endCursor }
      edges {
        node {
          id name
        }
        metadata {
          groupsCount
          eventsAttended
          role
          isOrganizer
        }
      }
    }
  }
}
`

const groupMembersQuery = `
query(
  $urlname: String!,
  $first: Int,
  $after: String,
  $status: [MembershipStatus!]
) {
  groupByUrlname(urlname: $urlname) {
    memberships(first: $first, after: $after, filter: { status: $status }) {
      totalCount
      pageInfo {
        hasNextPage
        endCursor
      }
      edges {
        node {
          id
          name
          bio
          city
          country
          memberUrl
          username
          isOrganizer
          memberPhoto {
            baseUrl
          }
        }
        metadata {
          role
          joinTime
          status
          bio
          lastAccessTime
        }
      }
    }
  }
}
`

const groupMemberByIDQuery = `
query($urlname: String!, $memberIds: [ID!]) {
  groupByUrlname(urlname: $urlname) {
    memberships(filter: { memberIds: $memberIds }) {
      edges {
        node {
          id
          name
          bio
          city
          country
          memberUrl
          username
          isOrganizer
          memberPhoto {
            baseUrl
          }
        }
        metadata {
          role
          joinTime
          status
          bio
          lastAccessTime
        }
      }
    }
  }
}
`

const createEventMutation = `
mutation($input: CreateEventInput!) {
  createEvent(input: $input) {
    event {
      id
      title
      dateTime
      eventUrl
      status
      group {
        urlname
      }
    }
    errors {
      message
      code
      field
    }
  }
}
`

const editEventMutation = `
mutation($input: EditEventInput!) {
  editEvent(input: $input) {
    event {
      id
      title
      dateTime
      eventUrl
      status
    }
    errors {
      message
      code
      field
    }
  }
}
`

const deleteEventMutation = `
mutation($input: DeleteEventInput!) {
  deleteEvent(input: $input) {
    success
    errors {
      message
      code
    }
  }
}
`

const publishEventMutation = `
mutation($input: PublishEventInput!) {
  publishEvent(input: $input) {
    event {
      id
      title
      status
      eventUrl
    }
    errors {
      message
      code
    }
  }
}
`

const announceEventMutation = `
mutation($input: AnnounceEventInput!) {
  announceEvent(input: $input) {
    success
    errors {
      message
      code
    }
  }
}
`

const closeEventRsvpsMutation = `
mutation($input: CloseEventRsvpsInput!) {
  closeEventRsvps(input: $input) {
    event {
      id
      rsvpSettings {
        rsvpLimit
      }
    }
    errors {
      message
      code
    }
  }
}
`

const openEventRsvpsMutation = `
mutation($input: OpenEventRsvpsInput!) {
  openEventRsvps(input: $input) {
    event {
      id
      rsvpSettings {
        rsvpLimit
      }
    }
    errors {
      message
      code
    }
  }
}
`

const createVenueMutation = `
mutation($input: CreateVenueInput!) {
  createVenue(input: $input) {
    venue {
      id
      name
      address
      city
      country
    }
    errors {
      message
      code
      field
    }
  }
}
`
